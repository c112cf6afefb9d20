package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultBatchSize is the number of subtitle entries sent per API request.
const DefaultBatchSize = 50

// Item is a single subtitle text to translate. Index ties the result back to
// the source entry.
type Item struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Result is a translated subtitle text.
type Result struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Translator translates subtitle texts in batches.
type Translator interface {
	Translate(ctx context.Context, items []Item) ([]Result, error)
}

// Provider identifies a translation backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Options configure a translation run.
type Options struct {
	SourceLanguage string
	TargetLanguage string
	Model          string
	BatchSize      int // entries per API request, DefaultBatchSize when <= 0
	Concurrency    int // parallel batch requests, 3 when <= 0
}

func (o Options) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

func (o Options) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return 3
}

// Factory creates a Translator for the given provider.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}

	switch provider {
	case ProviderOpenAI:
		return NewOpenAITranslator(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicTranslator(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

// buildPrompt renders the instruction block plus the batch as JSON. Both
// providers share it so their outputs stay parseable by the same extractor.
func buildPrompt(opts Options, items []Item) string {
	var sb strings.Builder

	if opts.SourceLanguage != "" {
		fmt.Fprintf(&sb,
			"Translate the following %s subtitle texts to %s.\n\n",
			opts.SourceLanguage,
			opts.TargetLanguage,
		)
	} else {
		fmt.Fprintf(&sb,
			"Translate the following subtitle texts to %s.\n\n",
			opts.TargetLanguage,
		)
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Translate ONLY the text content, preserving the meaning.\n")
	sb.WriteString("2. Preserve line breaks in the same positions.\n")
	sb.WriteString("3. Return ONLY a JSON array with the same structure.\n")
	sb.WriteString("4. Each object must have 'index' and 'text' fields.\n")
	sb.WriteString("5. The 'index' values must match the input indices exactly.\n")
	sb.WriteString("6. Do not add any explanation or markdown formatting.\n\n")

	sb.WriteString("Input JSON:\n")
	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)
	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}

// batchFunc translates one batch via a single API request.
type batchFunc func(ctx context.Context, items []Item) ([]Result, error)

// runBatches splits items into batches and runs translateBatch over a small
// worker pool. The first batch failure cancels the rest. Results are returned
// in index order.
func runBatches(
	ctx context.Context,
	items []Item,
	opts Options,
	translateBatch batchFunc,
) ([]Result, error) {
	if len(items) == 0 {
		return []Result{}, nil
	}

	batchSize := opts.batchSize()
	var batches [][]Item
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}

	if len(batches) == 1 {
		return translateBatch(ctx, batches[0])
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type batchResult struct {
		index   int
		results []Result
		err     error
	}

	workChan := make(chan int)
	resultChan := make(chan batchResult, len(batches))

	concurrency := opts.concurrency()
	var wg sync.WaitGroup
	for i := 0; i < concurrency && i < len(batches); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-workChan:
					if !ok {
						return
					}
					results, err := translateBatch(ctx, batches[idx])
					if err != nil {
						cancel()
					}
					resultChan <- batchResult{index: idx, results: results, err: err}
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for i := range batches {
			select {
			case <-ctx.Done():
				return
			case workChan <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var all []Result
	var firstErr error
	for result := range resultChan {
		if result.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("batch %d failed: %w", result.index, result.err)
			}
			continue
		}
		all = append(all, result.results...)
	}
	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Index < all[j].Index })
	return all, nil
}
