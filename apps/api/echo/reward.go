package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core/reward"
)

type rewardApi struct {
	deps ServerDeps
}

func registerRewardAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := rewardApi{deps: deps}

	g.GET("/profile", api.retrieveProfile, jwt)
	g.GET("/achievements", api.queryAchievements, jwt)
	g.GET("/leaderboard", api.retrieveLeaderboard, jwt)
}

// Handlers

// retrieveProfile returns the caller's progression state, provisioning the
// profile on first access for accounts that predate it.
func (api *rewardApi) retrieveProfile(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	prof, err := api.deps.ProfileSvc.GetOrCreate(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "getting profile")
	}
	return ctx.JSON(http.StatusOK, prof)
}

func (api *rewardApi) queryAchievements(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()

	badges, err := api.deps.RewardSvc.UserBadgeProgress(reqCtx, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying badge progress")
	}
	awards, err := api.deps.RewardSvc.UserAwards(reqCtx, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying awards")
	}
	if awards == nil {
		awards = []reward.Award{}
	}
	return ctx.JSON(http.StatusOK, AchievementsResponse{Badges: badges, Earned: awards})
}

func (api *rewardApi) retrieveLeaderboard(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	lb, err := api.deps.BoardSvc.Build(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "building leaderboard")
	}
	return ctx.JSON(http.StatusOK, lb)
}

type AchievementsResponse struct {
	Badges []reward.BadgeProgress `json:"badges"`
	Earned []reward.Award         `json:"earned"`
}
