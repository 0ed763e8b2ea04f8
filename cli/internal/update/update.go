// Package update checks GitHub releases for a newer cmdql version.
package update

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-version"
)

const releaseURL = "https://api.github.com/repos/cmdql/cmdql/releases/latest"

var client = &http.Client{Timeout: 3 * time.Second}

// Check compares the running version against the latest release. It
// returns the newer version string, or "" when current is up to date.
// Network failures are returned, not fatal; the version command prints
// them as a warning at most.
func Check(current string) (string, error) {
	cur, err := version.NewVersion(current)
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", current, err)
	}

	latest, err := fetchLatest()
	if err != nil {
		return "", err
	}
	lat, err := version.NewVersion(latest)
	if err != nil {
		return "", fmt.Errorf("invalid release tag %q: %w", latest, err)
	}

	if cur.LessThan(lat) {
		return lat.String(), nil
	}
	return "", nil
}

func fetchLatest() (string, error) {
	resp, err := client.Get(releaseURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release lookup returned %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}
