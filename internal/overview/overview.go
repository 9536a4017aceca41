// Package overview implements a short natural-language project digest
// over a time-filtered slice of the dataset, bounded by a total token
// budget. It reuses tokencount's batch split for the group-partition step
// and apiclient for every summarization call.
package overview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"issuelens/internal/apiclient"
	"issuelens/internal/dataset"
	"issuelens/internal/errs"
	"issuelens/internal/logging"
	"issuelens/internal/textextract"
	"issuelens/internal/tokencount"
)

// Options parameterizes one overview run.
type Options struct {
	Since    string // inclusive, "YYYY-MM-DD", empty means unbounded
	Until    string // inclusive, "YYYY-MM-DD", empty means unbounded
	Budget   int    // B, max total tokens (default 12000)
	Endpoint string
	Model    string
}

// Result is the digest operation's output.
type Result struct {
	Digest            string `json:"digest"`
	StoriesConsidered int    `json:"stories_considered"`
	BugsConsidered    int    `json:"bugs_considered"`
	Groups            int    `json:"groups"`
}

// promptOverhead is a rough reservation for the instruction text wrapped
// around the serialized slice; expectedResponse is the response tokens overview
// budgets for per the "B minus prompt_overhead minus expected_response_tokens"
// fit check.
const (
	promptOverhead   = 200
	expectedResponse = 600
	defaultBudget    = 12000
)

// Generate filters the dataset to [since, until] by created-at, then
// either sends the whole filtered slice in one call (if it fits the
// budget) or partitions it into token-bounded groups, summarizes each
// group, and summarizes the summaries (the partition is deterministic
// given a fixed budget and a fixed input order, since Split and the
// dataset's own ordering are both deterministic).
func Generate(ctx context.Context, d *dataset.Dataset, client *apiclient.Client, opts Options) (Result, error) {
	timer := logging.StartTimer(logging.CategoryOverview, "Generate")
	defer timer.Stop()

	budget := opts.Budget
	if budget <= 0 {
		budget = defaultBudget
	}

	stories := filterByCreated(d.Stories, opts.Since, opts.Until)
	bugs := filterByCreated(d.Bugs, opts.Since, opts.Until)
	logging.Overview("Generate: filtered to %d stories, %d bugs (range %s..%s)", len(stories), len(bugs), opts.Since, opts.Until)

	if len(stories) == 0 && len(bugs) == 0 {
		return Result{Digest: "No records in the requested time range.", Groups: 0}, nil
	}

	records := make([]dataset.Record, 0, len(stories)+len(bugs))
	records = append(records, stories...)
	records = append(records, bugs...)

	requestBudget := budget - promptOverhead - expectedResponse
	if requestBudget < 1 {
		requestBudget = 1
	}

	serialized := serialize(records)
	if tokencount.Count(serialized) <= requestBudget {
		digest, err := summarizeSlice(ctx, client, serialized, opts)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Digest:            digest,
			StoriesConsidered: len(stories),
			BugsConsidered:    len(bugs),
			Groups:            1,
		}, nil
	}

	batches := tokencount.SplitAll(len(records), requestBudget, func(i int) int {
		return tokencount.Count(textextract.Project(records[i]))
	})
	logging.Overview("Generate: slice too large for one call, split into %d groups", len(batches))

	paragraphs := make([]string, 0, len(batches))
	for i, b := range batches {
		group := records[b[0]:b[1]]
		text := serialize(group)
		para, err := summarizeSlice(ctx, client, text, opts)
		if err != nil {
			return Result{}, fmt.Errorf("overview: summarize group %d: %w", i, err)
		}
		paragraphs = append(paragraphs, para)
	}

	final, err := summarizeParagraphs(ctx, client, paragraphs, opts)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Digest:            final,
		StoriesConsidered: len(stories),
		BugsConsidered:    len(bugs),
		Groups:            len(batches),
	}, nil
}

func filterByCreated(records []dataset.Record, since, until string) []dataset.Record {
	if since == "" && until == "" {
		return records
	}
	out := make([]dataset.Record, 0, len(records))
	for _, r := range records {
		created := strings.TrimSpace(r.Created())
		if created == "" {
			continue
		}
		day := created
		if len(day) >= 10 {
			day = day[:10]
		}
		if since != "" && day < since {
			continue
		}
		if until != "" && day > until {
			continue
		}
		out = append(out, r)
	}
	return out
}

func serialize(records []dataset.Record) string {
	data, err := json.Marshal(records)
	if err != nil {
		// Fields are always decoded from valid JSON originally; marshal
		// cannot fail in practice, but degrade gracefully rather than panic.
		return textextract.ProjectAll(records)
	}
	return string(data)
}

const sliceInstruction = `You are summarizing a slice of a software project's issue tracker for a status digest.
Write a short, neutral paragraph (3-6 sentences) covering: what the stories/bugs in this slice are
about, any notable clusters of work, and anything that looks overdue or high priority. Do not invent
facts not present in the data below.

DATA:
%s`

const paragraphInstruction = `The paragraphs below are independent summaries of different slices of the same project's issue
tracker, covering the same time window. Combine them into one short final digest (4-8 sentences),
removing redundancy and preserving anything notable (overdue items, high-priority clusters, unusual
volume).

PARAGRAPHS:
%s`

func summarizeSlice(ctx context.Context, client *apiclient.Client, data string, opts Options) (string, error) {
	prompt := fmt.Sprintf(sliceInstruction, data)
	return callWithDeadline(ctx, client, prompt, opts)
}

func summarizeParagraphs(ctx context.Context, client *apiclient.Client, paragraphs []string, opts Options) (string, error) {
	prompt := fmt.Sprintf(paragraphInstruction, strings.Join(paragraphs, "\n\n---\n\n"))
	return callWithDeadline(ctx, client, prompt, opts)
}

func callWithDeadline(ctx context.Context, client *apiclient.Client, prompt string, opts Options) (string, error) {
	select {
	case <-ctx.Done():
		return "", errs.Cancelled("overview generation")
	default:
	}
	out, err := client.Call(ctx, prompt, apiclient.CallOptions{
		Model:     opts.Model,
		Endpoint:  opts.Endpoint,
		MaxTokens: expectedResponse,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
