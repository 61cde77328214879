package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	githubProvider   = "github"
	defaultGithubAPI = "https://api.github.com"
	// languageFetches caps how many repos get a per-language byte breakdown
	languageFetches = 15
)

// GithubClient reads public profile data from the GitHub REST API
type GithubClient struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewGithubClient(token, baseURL string) *GithubClient {
	if baseURL == "" {
		baseURL = defaultGithubAPI
	}
	return &GithubClient{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// ── GitHub API response types ────────────────────────

type githubRepo struct {
	Name            string   `json:"name"`
	FullName        string   `json:"full_name"`
	Description     string   `json:"description"`
	Language        string   `json:"language"`
	Topics          []string `json:"topics"`
	Fork            bool     `json:"fork"`
	StargazersCount int      `json:"stargazers_count"`
	PushedAt        string   `json:"pushed_at"`
}

// ProfileText summarizes a user's public, non-fork repositories as text a
// skill extractor can read.
func (c *GithubClient) ProfileText(ctx context.Context, login string) (string, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return "", fmt.Errorf("github login is required")
	}

	var repos []githubRepo
	path := fmt.Sprintf("/users/%s/repos?per_page=100&sort=pushed&type=owner", url.PathEscape(login))
	if err := c.getJSON(ctx, path, &repos); err != nil {
		return "", err
	}

	owned := repos[:0]
	for _, r := range repos {
		if !r.Fork {
			owned = append(owned, r)
		}
	}

	languages, err := c.languageTotals(ctx, owned)
	if err != nil {
		return "", err
	}

	log.Info().Str("login", login).Int("repos", len(owned)).Msg("Fetched GitHub profile")

	return formatGithubProfile(login, owned, languages), nil
}

// languageTotals sums bytes per language over the most recently pushed repos
func (c *GithubClient) languageTotals(ctx context.Context, repos []githubRepo) (map[string]int, error) {
	if len(repos) > languageFetches {
		repos = repos[:languageFetches]
	}

	var mu sync.Mutex
	totals := make(map[string]int)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, r := range repos {
		g.Go(func() error {
			var langs map[string]int
			if err := c.getJSON(gCtx, "/repos/"+r.FullName+"/languages", &langs); err != nil {
				return err
			}
			mu.Lock()
			for lang, n := range langs {
				totals[lang] += n
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return totals, nil
}

func (c *GithubClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating github request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return transportError(githubProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(githubProvider, err)
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(githubProvider, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing github response: %w", err)
	}
	return nil
}

func formatGithubProfile(login string, repos []githubRepo, languages map[string]int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "GitHub user: %s\n", login)

	if len(languages) > 0 {
		names := make([]string, 0, len(languages))
		total := 0
		for lang, n := range languages {
			names = append(names, lang)
			total += n
		}
		sort.Slice(names, func(i, j int) bool {
			if languages[names[i]] != languages[names[j]] {
				return languages[names[i]] > languages[names[j]]
			}
			return names[i] < names[j]
		})

		sb.WriteString("\nLanguages by code volume:\n")
		for _, lang := range names {
			fmt.Fprintf(&sb, "- %s: %.1f%%\n", lang, float64(languages[lang])*100/float64(total))
		}
	}

	sb.WriteString("\nRepositories:\n")
	for _, r := range repos {
		fmt.Fprintf(&sb, "- %s", r.Name)
		if r.Language != "" {
			fmt.Fprintf(&sb, " [%s]", r.Language)
		}
		if r.StargazersCount > 0 {
			fmt.Fprintf(&sb, " (%d stars)", r.StargazersCount)
		}
		if r.Description != "" {
			fmt.Fprintf(&sb, ": %s", r.Description)
		}
		if len(r.Topics) > 0 {
			fmt.Fprintf(&sb, " topics: %s", strings.Join(r.Topics, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
