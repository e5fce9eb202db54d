package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core/content"
	"github.com/trezcool/jifunze/core/reward"
)

var defaultBadges = []content.Badge{
	{
		Name:        reward.BadgeChapterKing,
		Description: "Complete a chapter with a perfect quiz score.",
		Icon:        "crown",
		Category:    content.BadgeCategoryChapter,
	},
	{
		Name:        reward.BadgeQuizMaster,
		Description: "Score 100% on a quiz.",
		Icon:        "star",
		Category:    content.BadgeCategoryQuiz,
	},
	{
		Name:        reward.BadgeTopLeveler,
		Description: "Reach 100 XP.",
		Icon:        "medal",
		Category:    content.BadgeCategoryXP,
	},
	{
		Name:        reward.BadgeSupremeWarrior,
		Description: "Reach 500 XP.",
		Icon:        "trophy",
		Category:    content.BadgeCategoryXP,
	},
}

// seedContent installs the default badge definitions and a starter chapter
// with its quiz. Safe to re-run: existing names and orders are skipped.
func (cli *commandLine) seedContent() error {
	ctx := context.Background()

	for _, b := range defaultBadges {
		if _, err := cli.contentRepo.GetBadgeByName(ctx, b.Name); err == nil {
			continue
		} else if errors.Cause(err) != content.ErrBadgeNotFound {
			return err
		}
		if _, err := cli.contentRepo.CreateBadge(ctx, b); err != nil {
			return err
		}
		logger.Printf("badge %q created\n", b.Name)
	}

	exists, err := cli.contentRepo.ChapterOrderExists(ctx, 1)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	chapter, err := cli.contentRepo.CreateChapter(ctx, content.Chapter{
		Title:     "Getting Started",
		Content:   "Welcome! This chapter walks you through how learning works here.",
		Order:     1,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	quiz, err := cli.contentRepo.CreateQuiz(ctx, content.Quiz{
		ChapterID: chapter.ID,
		Title:     "Getting Started Quiz",
	})
	if err != nil {
		return err
	}
	_, err = cli.contentRepo.CreateQuestion(ctx, content.Question{
		QuizID:   quiz.ID,
		Text:     "How much XP does a correct answer earn?",
		Position: 1,
		Options: []content.Option{
			{Position: 1, Text: "5"},
			{Position: 2, Text: "10", IsCorrect: true},
			{Position: 3, Text: "50"},
		},
	})
	if err != nil {
		return err
	}
	logger.Printf("chapter %q created\n", chapter.Title)
	return nil
}
