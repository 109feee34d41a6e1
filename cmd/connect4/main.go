package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dropfour/connect4/internal/cli"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		PadLevelText:  true,
	})
	logrus.SetLevel(logrus.InfoLevel)

	if err := run(); err != nil {
		logrus.Fatal(err)
	}
}

func run() error {
	root := cli.Root()
	root.SetArgs(os.Args[1:])
	return root.ExecuteContext(context.Background())
}
