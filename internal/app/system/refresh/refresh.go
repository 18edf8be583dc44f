// internal/app/system/refresh/refresh.go
//
// Package refresh re-derives session collections from the upstream API.
// Each call issues only the fetches the caller's role is permitted, and
// results are applied through the epoch-guarded setters so a response
// arriving after logout (or after a later login) is discarded.
package refresh

import (
	"context"

	"go.uber.org/zap"

	"github.com/chapelstack/chapelhub/internal/apiclient"
	"github.com/chapelstack/chapelhub/internal/app/state"
	"github.com/chapelstack/chapelhub/internal/app/system/auth"
	"github.com/chapelstack/chapelhub/internal/app/system/authz"
)

var fetchFailMessages = map[authz.Resource]string{
	authz.ResourceAttendance: "Failed to fetch attendance data.",
	authz.ResourcePayments:   "Failed to fetch payments data.",
	authz.ResourceAccounts:   "Failed to fetch account details.",
	authz.ResourceProjects:   "Failed to fetch projects data.",
	authz.ResourceUsers:      "Failed to fetch users data.",
}

var networkFailMessages = map[authz.Resource]string{
	authz.ResourceAttendance: "Network error fetching attendance data.",
	authz.ResourcePayments:   "Network error fetching payments data.",
	authz.ResourceAccounts:   "Network error fetching account details.",
	authz.ResourceProjects:   "Network error fetching projects data.",
	authz.ResourceUsers:      "Network error fetching users data.",
}

// All issues every collection fetch the user's role permits. Unpermitted
// resources are never requested.
func All(ctx context.Context, api *apiclient.Client, s *state.Session, u *auth.SessionUser, log *zap.Logger) {
	for _, res := range authz.Resources(u.Role()) {
		One(ctx, api, s, u, res, log)
	}
}

// One fetches a single collection if the role permits it. It reports
// whether fresh data was applied to the session.
func One(ctx context.Context, api *apiclient.Client, s *state.Session, u *auth.SessionUser, res authz.Resource, log *zap.Logger) bool {
	if !authz.CanFetch(u.Role(), res) {
		return false
	}

	epoch := s.Epoch()

	switch res {
	case authz.ResourceAttendance:
		recs, err := api.FetchAttendance(ctx, u.Token)
		if err != nil {
			fail(s, res, err, log)
			return false
		}
		return s.SetAttendance(epoch, recs)
	case authz.ResourcePayments:
		recs, err := api.FetchPayments(ctx, u.Token)
		if err != nil {
			fail(s, res, err, log)
			return false
		}
		return s.SetPayments(epoch, recs)
	case authz.ResourceAccounts:
		recs, err := api.FetchAccountDetails(ctx, u.Token)
		if err != nil {
			fail(s, res, err, log)
			return false
		}
		return s.SetAccounts(epoch, recs)
	case authz.ResourceProjects:
		recs, err := api.FetchProjects(ctx, u.Token)
		if err != nil {
			fail(s, res, err, log)
			return false
		}
		return s.SetProjects(epoch, recs)
	case authz.ResourceUsers:
		recs, err := api.FetchUsers(ctx, u.Token)
		if err != nil {
			fail(s, res, err, log)
			return false
		}
		return s.SetUsers(epoch, recs)
	}
	return false
}

func fail(s *state.Session, res authz.Resource, err error, log *zap.Logger) {
	msg := fetchFailMessages[res]
	if apiclient.IsNetwork(err) {
		msg = networkFailMessages[res]
	}
	log.Warn("collection fetch failed",
		zap.String("resource", string(res)),
		zap.Error(err))
	s.ShowToast(msg, state.ToastError)
}
