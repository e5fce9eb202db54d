// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/jifunze/core/content"
	"github.com/trezcool/jifunze/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	isAdmin, isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		IsAdmin:   isAdmin,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateChapter(t *testing.T, repo content.Repository, title string, order int) content.Chapter {
	t.Helper()

	ch, err := repo.CreateChapter(context.Background(), content.Chapter{
		Title:   title,
		Content: title + " content",
		Order:   order,
	})
	if err != nil {
		t.Fatalf("CreateChapter() failed: %v", err)
	}
	return ch
}

// CreateQuiz creates a quiz for the chapter with one question per entry of
// correctPositions; every question gets 4 options and the given correct one.
func CreateQuiz(t *testing.T, repo content.Repository, chapterID string, correctPositions ...int) (content.Quiz, []content.Question) {
	t.Helper()
	ctx := context.Background()

	quiz, err := repo.CreateQuiz(ctx, content.Quiz{ChapterID: chapterID, Title: "Quiz"})
	if err != nil {
		t.Fatalf("CreateQuiz() failed: %v", err)
	}

	questions := make([]content.Question, 0, len(correctPositions))
	for i, correct := range correctPositions {
		q := content.Question{
			QuizID:   quiz.ID,
			Text:     "Question",
			Position: i + 1,
		}
		for pos := 1; pos <= 4; pos++ {
			q.Options = append(q.Options, content.Option{
				Position:  pos,
				Text:      "Option",
				IsCorrect: pos == correct,
			})
		}
		q, err = repo.CreateQuestion(ctx, q)
		if err != nil {
			t.Fatalf("CreateQuiz() failed: %v", err)
		}
		questions = append(questions, q)
	}
	return quiz, questions
}

func CreateBadge(t *testing.T, repo content.Repository, name, category string) content.Badge {
	t.Helper()

	b, err := repo.CreateBadge(context.Background(), content.Badge{
		Name:        name,
		Description: name,
		Icon:        "star",
		Category:    category,
	})
	if err != nil {
		t.Fatalf("CreateBadge() failed: %v", err)
	}
	return b
}
