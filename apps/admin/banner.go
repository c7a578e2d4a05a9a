package main

import (
	"context"

	"github.com/surveyops/respops/core/banner"
)

func (cli *commandLine) setBanner(content string) error {
	_, err := cli.bannerSvc.Publish(context.Background(), banner.NewBanner{Content: content}, "admin-cli")
	return err
}

func (cli *commandLine) clearBanner() error {
	return cli.bannerSvc.Remove(context.Background())
}
