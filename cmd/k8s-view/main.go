package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bdlm/log"
	"github.com/mkenney/k8s-view/pkg/config"
	"github.com/mkenney/k8s-view/pkg/k8s"
	"github.com/mkenney/k8s-view/pkg/proxy"
)

func init() {
	// log level and format
	levelFlag := os.Getenv("LOG_LEVEL")
	if "" == levelFlag {
		levelFlag = "info"
	}
	level, err := log.ParseLevel(levelFlag)
	if nil != err {
		log.WithField("err", err).Warnf("%-v", err)
		level, _ = log.ParseLevel("debug")
	}
	log.SetFormatter(&log.TextFormatter{
		ForceTTY: true,
	})
	log.SetLevel(level)
}

func main() {
	cfg, err := config.Load()
	if nil != err {
		log.Fatalf("%-v", err)
	}

	api, err := k8s.New(cfg.Kubeconfig, cfg.Namespace, cfg.Interval)
	if nil != err {
		log.Fatalf("%-v", err)
	}

	proxy, err := proxy.New(cfg, api.Services)
	if nil != err {
		log.Fatalf("%-v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Infof("starting services...")
	errs := proxy.Start(ctx)

	// Shutdown when a signal is received.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-c:
		log.Infof("'%s' signal received, shutting down proxy", sig)
		proxy.Stop()
	case err := <-errs:
		proxy.Stop()
		log.Fatalf("%-v", err)
	}
}
