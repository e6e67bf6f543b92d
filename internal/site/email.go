package site

import (
	"fmt"
	"strings"

	"github.com/mazen160/go-random"
)

const emailDomain = "gmail.com"

// RandomEmail returns an address that passes form validation and has not
// been subscribed before, like `qa-7fkq2mzx@gmail.com`.
func RandomEmail() (string, error) {
	local, err := random.String(8)
	if err != nil {
		return "", fmt.Errorf("generate random email: %w", err)
	}
	return fmt.Sprintf("qa-%s@%s", strings.ToLower(local), emailDomain), nil
}
