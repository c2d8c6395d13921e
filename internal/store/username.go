package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"seulink/internal/domain"
)

// maxUsernameSuffix bounds the numbered candidates tried before a random one.
const maxUsernameSuffix = 20

// FreeUsername returns base when no other account uses it, otherwise the
// first free candidate among base2, base3 and so on. ownerID may already hold
// the name.
func FreeUsername(ctx context.Context, profiles func() Query[domain.UserProfile], base, ownerID string) (string, error) {
	for n := 1; n <= maxUsernameSuffix; n++ {
		candidate := base
		if n > 1 {
			candidate = base + strconv.Itoa(n)
		}
		free, err := usernameFree(ctx, profiles, candidate, ownerID)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
	candidate := base + "-" + uuid.NewString()[:8]
	free, err := usernameFree(ctx, profiles, candidate, ownerID)
	if err != nil {
		return "", err
	}
	if !free {
		return "", fmt.Errorf("no free username for %q", base)
	}
	return candidate, nil
}

func usernameFree(ctx context.Context, profiles func() Query[domain.UserProfile], username, ownerID string) (bool, error) {
	owners, err := profiles().Eq("username", username).Execute(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	for _, o := range owners {
		if o.ID != ownerID {
			return false, nil
		}
	}
	return true, nil
}
