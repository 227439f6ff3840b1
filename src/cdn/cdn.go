package cdn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"git.shiro.blog/shiro/shiro/src/config"
	"git.shiro.blog/shiro/shiro/src/logging"
	"git.shiro.blog/shiro/shiro/src/oops"
	"git.shiro.blog/shiro/shiro/src/utils"
	"github.com/jpillora/backoff"
)

const purgeAttempts = 3

var httpClient = &http.Client{
	Timeout: 10 * time.Second,
}

type purgeRequest struct {
	Paths []string `json:"paths"`
}

/*
PurgePaths asks the CDN to drop its cached copies of the given paths. Purging
is cosmetic - stale pages age out on their own - so failures are retried a few
times and then logged, never surfaced to the caller's caller.

With no purge URL configured (local dev), this is a no-op.
*/
func PurgePaths(ctx context.Context, paths ...string) {
	if config.Config.CDN.PurgeUrl == "" || len(paths) == 0 {
		return
	}

	body, err := json.Marshal(purgeRequest{Paths: paths})
	if err != nil {
		panic(err)
	}

	b := &backoff.Backoff{
		Min:    250 * time.Millisecond,
		Max:    5 * time.Second,
		Jitter: true,
	}

	for attempt := 1; attempt <= purgeAttempts; attempt++ {
		err = doPurge(ctx, body)
		if err == nil {
			return
		}
		if attempt < purgeAttempts {
			if utils.SleepContext(ctx, b.Duration()) != nil {
				break
			}
		}
	}

	logging.ExtractLogger(ctx).Error().
		Err(err).
		Strs("paths", paths).
		Msg("failed to purge CDN cache")
}

func doPurge(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, config.Config.CDN.PurgeUrl, bytes.NewReader(body))
	if err != nil {
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", config.Config.CDN.PurgeToken))

	res, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	if res.StatusCode >= 400 {
		return oops.New(nil, "CDN purge returned status %d", res.StatusCode)
	}
	return nil
}
