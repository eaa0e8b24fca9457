package main

import (
	"shelter-registry/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	app, err := bootstrap.New()
	if err != nil {
		logrus.WithError(err).Fatal("Shelter registry failed to start")
	}

	app.Run()
}
