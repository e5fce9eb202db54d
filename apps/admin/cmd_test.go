package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"testing"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/user"
	"github.com/trezcool/jifunze/storage/database"
	inmemdb "github.com/trezcool/jifunze/storage/database/inmem"
	testutil "github.com/trezcool/jifunze/tests"
)

func setup(t *testing.T) *commandLine {
	t.Helper()

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags)
	db := inmemdb.NewDB()
	return &commandLine{
		conf:        core.NewConfig(),
		usrRepo:     inmemdb.NewUserRepository(db),
		contentRepo: inmemdb.NewContentRepository(db),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(db *database.DB, conf *core.Config, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "chapter", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)
	existing := testutil.CreateUser(t, cli.usrRepo, "Taken", "takenuser", "taken@test.cd", "", false, true)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "username but no email", args: []string{"adduser", "-username", "newadmin"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-username", "newadmin", "-email", "new@test.cd"}, wantErr: errHelp},
		{name: "username taken", args: []string{"adduser", "-username", existing.Username, "-email", "new@test.cd"},
			extra: extra{pwd: "lol"}, wantErr: user.ErrUsernameExists},
		{name: "email taken", args: []string{"adduser", "-username", "newadmin", "-email", existing.Email},
			extra: extra{pwd: "lol"}, wantErr: user.ErrEmailExists},
		{name: "user created", args: []string{"adduser", "-username", "newadmin", "-email", "new@test.cd", "-admin"},
			extra: extra{pwd: "S3cretW0rd!"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				usr, err := cli.usrRepo.GetUserByUsername(context.Background(), "newadmin")
				if err != nil {
					t.Fatalf("GetUserByUsername() failed, %v", err)
				}
				if !usr.IsAdmin || !usr.IsActive {
					t.Errorf("user = %+v; want an active admin", usr)
				}
				if cErr := usr.CheckPassword("S3cretW0rd!"); cErr != nil {
					t.Errorf("CheckPassword() failed, %v", cErr)
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_seedContent(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	if err := cli.run([]string{"admin", "seedcontent"}); err != nil {
		t.Fatalf("cli.run() error = %v", err)
	}

	badges, err := cli.contentRepo.QueryBadges(ctx)
	if err != nil {
		t.Fatalf("QueryBadges() failed, %v", err)
	}
	if len(badges) != len(defaultBadges) {
		t.Errorf("len(badges) = %d; want %d", len(badges), len(defaultBadges))
	}
	chapters, err := cli.contentRepo.QueryChapters(ctx)
	if err != nil {
		t.Fatalf("QueryChapters() failed, %v", err)
	}
	if len(chapters) != 1 {
		t.Fatalf("len(chapters) = %d; want 1", len(chapters))
	}
	quiz, err := cli.contentRepo.GetQuizByChapterID(ctx, chapters[0].ID)
	if err != nil {
		t.Fatalf("GetQuizByChapterID() failed, %v", err)
	}
	questions, err := cli.contentRepo.QueryQuizQuestions(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("QueryQuizQuestions() failed, %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("len(questions) = %d; want 1", len(questions))
	}
	if _, ok := questions[0].CorrectOption(); !ok {
		t.Error("seeded question has no correct option")
	}

	// re-running must not duplicate anything
	if err := cli.run([]string{"admin", "seedcontent"}); err != nil {
		t.Fatalf("cli.run() second run error = %v", err)
	}
	badges, _ = cli.contentRepo.QueryBadges(ctx)
	chapters, _ = cli.contentRepo.QueryChapters(ctx)
	if len(badges) != len(defaultBadges) || len(chapters) != 1 {
		t.Errorf("re-run duplicated seed data: %d badges, %d chapters", len(badges), len(chapters))
	}
}
