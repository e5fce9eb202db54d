package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	echoapi "github.com/trezcool/jifunze/apps/api/echo"
	"github.com/trezcool/jifunze/core/content"
	"github.com/trezcool/jifunze/core/grading"
	"github.com/trezcool/jifunze/core/progress"
	"github.com/trezcool/jifunze/core/reward"
	testutil "github.com/trezcool/jifunze/tests"
)

func seedMilestoneBadges(t *testing.T, repo content.Repository) {
	t.Helper()

	testutil.CreateBadge(t, repo, reward.BadgeChapterKing, content.BadgeCategoryChapter)
	testutil.CreateBadge(t, repo, reward.BadgeQuizMaster, content.BadgeCategoryQuiz)
	testutil.CreateBadge(t, repo, reward.BadgeTopLeveler, content.BadgeCategoryXP)
	testutil.CreateBadge(t, repo, reward.BadgeSupremeWarrior, content.BadgeCategoryXP)
}

func Test_learningApi_chapterAccess(t *testing.T) {
	app := newTestApp(t)
	usr := testutil.CreateUser(t, app.usrRepo, "Hero", "herokun", "hero@test.cd", "", false, true)
	token := getToken(t, usr)

	ch1 := testutil.CreateChapter(t, app.contentRepo, "Intro", 1)
	ch2 := testutil.CreateChapter(t, app.contentRepo, "Next", 2)

	lockedErr := marchallObj(t, httpErr{Error: progress.ErrChapterLocked.Error()})

	tests := []httpTest{
		{name: "no token", path: "/v1/chapters",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "first chapter is open", path: "/v1/chapters/" + ch1.ID, token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, ch1)},
		{name: "later chapter is locked", path: "/v1/chapters/" + ch2.ID, token: token,
			wantCode: http.StatusForbidden, wantData: lockedErr},
		{name: "locked quiz is not served", path: "/v1/chapters/" + ch2.ID + "/quiz", token: token,
			wantCode: http.StatusForbidden, wantData: lockedErr},
		{name: "unknown chapter", path: "/v1/chapters/nope", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: content.ErrChapterNotFound.Error()})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("statuses carry unlock flags", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/chapters", token)
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var statuses []progress.ChapterStatus
		decodeBody(t, rec, &statuses)
		if len(statuses) != 2 {
			t.Fatalf("len(statuses) = %d; want 2", len(statuses))
		}
		if !statuses[0].IsUnlocked || statuses[0].IsCompleted {
			t.Errorf("statuses[0] = %+v; want unlocked, not completed", statuses[0])
		}
		if statuses[1].IsUnlocked {
			t.Errorf("statuses[1] = %+v; want locked", statuses[1])
		}
	})
}

func Test_learningApi_retrieveQuiz(t *testing.T) {
	app := newTestApp(t)
	usr := testutil.CreateUser(t, app.usrRepo, "Hero", "herokun", "hero@test.cd", "", false, true)
	token := getToken(t, usr)

	ch := testutil.CreateChapter(t, app.contentRepo, "Intro", 1)
	testutil.CreateQuiz(t, app.contentRepo, ch.ID, 2, 3)

	req, rec := newAuthRequest(http.MethodGet, "/v1/chapters/"+ch.ID+"/quiz", token)
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}

	// answers must never leak to clients
	var res map[string]interface{}
	decodeBody(t, rec, &res)
	questions, ok := res["questions"].([]interface{})
	if !ok || len(questions) != 2 {
		t.Fatalf("questions = %v; want 2", res["questions"])
	}
	for i, q := range questions {
		options := q.(map[string]interface{})["options"].([]interface{})
		if len(options) != 4 {
			t.Fatalf("questions[%d]: len(options) = %d; want 4", i, len(options))
		}
		for j, opt := range options {
			if _, leaked := opt.(map[string]interface{})["is_correct"]; leaked {
				t.Errorf("questions[%d].options[%d] leaks is_correct", i, j)
			}
		}
	}
}

func Test_learningApi_submitQuiz(t *testing.T) {
	app := newTestApp(t)
	seedMilestoneBadges(t, app.contentRepo)
	usr := testutil.CreateUser(t, app.usrRepo, "Hero", "herokun", "hero@test.cd", "", false, true)
	token := getToken(t, usr)

	ch1 := testutil.CreateChapter(t, app.contentRepo, "Intro", 1)
	ch2 := testutil.CreateChapter(t, app.contentRepo, "Next", 2)
	_, questions1 := testutil.CreateQuiz(t, app.contentRepo, ch1.ID, 2, 3)
	testutil.CreateQuiz(t, app.contentRepo, ch2.ID, 1)

	perfect := make(grading.Submission, len(questions1))
	for _, q := range questions1 {
		correct, ok := q.CorrectOption()
		if !ok {
			t.Fatalf("question %s has no correct option", q.ID)
		}
		perfect[q.ID] = correct.Position
	}

	submit := func(chapterID string, sub grading.Submission) *grading.GradeResult {
		t.Helper()
		body := marchallObj(t, echoapi.QuizSubmission{Answers: sub})
		req, rec := newAuthRequest(http.MethodPost, "/v1/chapters/"+chapterID+"/quiz", token, body)
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var res grading.GradeResult
		decodeBody(t, rec, &res)
		return &res
	}

	t.Run("locked chapter is rejected", func(t *testing.T) {
		body := marchallObj(t, echoapi.QuizSubmission{Answers: grading.Submission{"whatever": 1}})
		req, rec := newAuthRequest(http.MethodPost, "/v1/chapters/"+ch2.ID+"/quiz", token, body)
		app.server.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: progress.ErrChapterLocked.Error()})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("perfect score completes the chapter", func(t *testing.T) {
		res := submit(ch1.ID, perfect)
		if res.ScorePercent != 100 || !res.ChapterDone {
			t.Errorf("result = %+v; want 100%%, chapter completed", res)
		}
		if res.XPEarned != 2*grading.XPPerCorrectAnswer {
			t.Errorf("XPEarned = %d; want %d", res.XPEarned, 2*grading.XPPerCorrectAnswer)
		}
		wantBadges := map[string]bool{reward.BadgeChapterKing: true, reward.BadgeQuizMaster: true}
		if len(res.NewBadges) != len(wantBadges) {
			t.Fatalf("NewBadges = %v; want %v", res.NewBadges, wantBadges)
		}
		for _, name := range res.NewBadges {
			if !wantBadges[name] {
				t.Errorf("unexpected badge %q", name)
			}
		}
	})

	t.Run("completion unlocks the next chapter", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/chapters/"+ch2.ID, token)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, ch2)}, rec)
	})

	t.Run("repeat completion awards nothing new", func(t *testing.T) {
		res := submit(ch1.ID, perfect)
		if len(res.NewBadges) != 0 {
			t.Errorf("NewBadges = %v; want none", res.NewBadges)
		}
	})
}

func Test_learningApi_authoring(t *testing.T) {
	app := newTestApp(t)
	admin := testutil.CreateUser(t, app.usrRepo, "Admin", "adminuser", "admin@test.cd", "", true, true)
	student := testutil.CreateUser(t, app.usrRepo, "Hero", "herokun", "hero@test.cd", "", false, true)
	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	permDenied := marchallObj(t, httpErr{Error: "permission denied"})
	xp := 100

	newChapter := func(order int) []byte {
		return marchallObj(t, content.NewChapter{Title: fmt.Sprintf("Chapter %d", order), Content: "...", Order: order})
	}
	newBadge := marchallObj(t, content.NewBadge{Name: "Early Bird", Icon: "sunrise", Category: content.BadgeCategoryXP})
	newAch := marchallObj(t, content.NewAchievement{Name: "Centurion", XPRequired: &xp})

	tests := []httpTest{
		{name: "chapter: non-admin denied", method: http.MethodPost, path: "/v1/chapters",
			body: newChapter(1), token: studentToken, wantCode: http.StatusForbidden, wantData: permDenied},
		{name: "chapter: created", method: http.MethodPost, path: "/v1/chapters",
			body: newChapter(1), token: adminToken, wantCode: http.StatusCreated},
		{name: "chapter: duplicate order rejected", method: http.MethodPost, path: "/v1/chapters",
			body: newChapter(1), token: adminToken, wantCode: http.StatusBadRequest},
		{name: "badge: non-admin denied", method: http.MethodPost, path: "/v1/badges",
			body: newBadge, token: studentToken, wantCode: http.StatusForbidden, wantData: permDenied},
		{name: "badge: created", method: http.MethodPost, path: "/v1/badges",
			body: newBadge, token: adminToken, wantCode: http.StatusCreated},
		{name: "badge: duplicate name rejected", method: http.MethodPost, path: "/v1/badges",
			body: newBadge, token: adminToken, wantCode: http.StatusBadRequest},
		{name: "achievement: non-admin denied", method: http.MethodPost, path: "/v1/achievement-definitions",
			body: newAch, token: studentToken, wantCode: http.StatusForbidden, wantData: permDenied},
		{name: "achievement: created", method: http.MethodPost, path: "/v1/achievement-definitions",
			body: newAch, token: adminToken, wantCode: http.StatusCreated},
		{name: "achievement: needs a trigger", method: http.MethodPost, path: "/v1/achievement-definitions",
			body: marchallObj(t, content.NewAchievement{Name: "Aimless"}), token: adminToken, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("quiz: created with questions", func(t *testing.T) {
		chapters, err := app.contentSvc.Chapters(context.Background())
		if err != nil || len(chapters) == 0 {
			t.Fatalf("Chapters(): %v", err)
		}
		body := marchallObj(t, content.NewQuiz{
			Title: "Chapter 1 Quiz",
			Questions: []content.NewQuestion{
				{Text: "2 + 2 ?", Options: []content.NewOption{{Text: "3"}, {Text: "4", IsCorrect: true}}},
			},
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/chapters/"+chapters[0].ID+"/quizzes", adminToken, body)
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var quiz content.Quiz
		decodeBody(t, rec, &quiz)
		qs, err := app.contentSvc.QuizQuestions(context.Background(), quiz.ID)
		if err != nil {
			t.Fatalf("QuizQuestions(): %v", err)
		}
		if len(qs) != 1 || len(qs[0].Options) != 2 {
			t.Errorf("questions = %+v; want 1 question with 2 options", qs)
		}
	})
}
