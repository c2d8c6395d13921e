// Package viewer resolves public profiles and renders their exports.
package viewer

import (
	"context"

	"github.com/sirupsen/logrus"

	"seulink/internal/domain"
	"seulink/internal/store"
)

// Status is the outcome of a username lookup.
type Status int

const (
	Found Status = iota
	NotFound
	Failed
)

// Lookup is the result of resolving a username.
type Lookup struct {
	Status  Status
	Profile domain.UserProfile
	Err     error
}

// OK reports whether a profile was found.
func (l Lookup) OK() bool { return l.Status == Found }

// Cache is the subset of the profile cache the viewer reads through.
type Cache interface {
	Get(ctx context.Context, username string) (domain.UserProfile, error)
	Set(ctx context.Context, p domain.UserProfile) error
}

// Service looks public profiles up by username.
type Service struct {
	client store.Client
	cache  Cache
	log    logrus.FieldLogger
}

// NewService builds a Service. cache may be nil.
func NewService(client store.Client, cache Cache, logger logrus.FieldLogger) *Service {
	return &Service{client: client, cache: cache, log: logger.WithField("component", "viewer")}
}

// Lookup resolves username to exactly one profile.
func (s *Service) Lookup(ctx context.Context, username string) Lookup {
	username = domain.SanitizeUsername(username)
	if username == "" {
		return Lookup{Status: NotFound, Err: store.ErrNoRows}
	}

	if s.cache != nil {
		if p, err := s.cache.Get(ctx, username); err == nil {
			return Lookup{Status: Found, Profile: p}
		}
	}

	p, err := s.client.Profiles().Eq("username", username).Single(ctx)
	if err != nil {
		if store.IsNotFound(err) {
			return Lookup{Status: NotFound, Err: err}
		}
		s.log.WithError(err).WithField("username", username).Error("Failed to load public profile")
		return Lookup{Status: Failed, Err: err}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, p); err != nil {
			s.log.WithError(err).Warn("Failed to cache public profile")
		}
	}
	return Lookup{Status: Found, Profile: p}
}

// PublicURL is the shareable address of a profile.
func PublicURL(base, username string) string {
	return base + "/#/u/" + username
}
