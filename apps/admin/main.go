package main

import (
	"log"
	"os"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/storage/database"
	pgrepos "github.com/trezcool/jifunze/storage/database/postgres"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	// start CLI
	cli := commandLine{
		conf:        conf,
		db:          db,
		usrRepo:     pgrepos.NewUserRepository(db),
		contentRepo: pgrepos.NewContentRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
