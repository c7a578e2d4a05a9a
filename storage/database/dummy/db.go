package dummydb

import (
	"sync"

	"github.com/surveyops/respops/core/banner"
	"github.com/surveyops/respops/core/user"
)

type (
	DB struct {
		user   *userTable
		banner *bannerTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	bannerTable struct {
		sync.RWMutex
		active    *banner.Banner
		templates map[string]*banner.Template
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:   &userTable{table: make(map[string]*user.User)},
		banner: &bannerTable{templates: make(map[string]*banner.Template)},
	}
	return db, nil
}
