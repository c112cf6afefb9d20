package translate

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestFactoryReturnsOpenAITranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "Spanish"}
	translator, err := Factory(ctx, ProviderOpenAI, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderOpenAI) returned error: %v", err)
	}
	if _, ok := translator.(*OpenAITranslator); !ok {
		t.Errorf("expected *OpenAITranslator, got %T", translator)
	}
}

func TestFactoryReturnsAnthropicTranslator(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "Japanese"}
	translator, err := Factory(ctx, ProviderAnthropic, "fake-key", opts)
	if err != nil {
		t.Fatalf("Factory(ProviderAnthropic) returned error: %v", err)
	}
	if _, ok := translator.(*AnthropicTranslator); !ok {
		t.Errorf("expected *AnthropicTranslator, got %T", translator)
	}
}

func TestFactoryRequiresTargetLanguage(t *testing.T) {
	_, err := Factory(context.Background(), ProviderOpenAI, "fake-key", Options{})
	if err == nil {
		t.Error("expected error for missing target language")
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	opts := Options{TargetLanguage: "French"}
	_, err := Factory(context.Background(), Provider("unknown"), "k", opts)
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestBuildPrompt(t *testing.T) {
	opts := Options{SourceLanguage: "English", TargetLanguage: "German"}
	items := []Item{{Index: 0, Text: "Hello"}, {Index: 1, Text: "Bye"}}

	prompt := buildPrompt(opts, items)

	for _, want := range []string{"English", "German", `"index": 0`, `"Hello"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"```json\n[{\"index\":0}]\n```", `[{"index":0}]`},
		{"```\n[1]\n```", "[1]"},
		{"  [1]  ", "[1]"},
	}
	for _, tt := range tests {
		if got := cleanJSONResponse(tt.input); got != tt.want {
			t.Errorf("cleanJSONResponse(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFixInvalidEscapes(t *testing.T) {
	got := fixInvalidEscapes(`{"text": "line one\Nline two"}`)
	want := `{"text": "line one\\Nline two"}`
	if got != want {
		t.Errorf("fixInvalidEscapes = %q, want %q", got, want)
	}

	// valid escapes are untouched
	valid := `{"text": "a\nb\t\"c\""}`
	if got := fixInvalidEscapes(valid); got != valid {
		t.Errorf("valid escapes modified: %q", got)
	}
}

func TestExtractResults(t *testing.T) {
	tests := []struct {
		name  string
		input string
		count int
	}{
		{
			name:  "bare array",
			input: `[{"index":0,"text":"Hola"},{"index":1,"text":"Adiós"}]`,
			count: 2,
		},
		{
			name:  "wrapped in results key",
			input: `{"results":[{"index":0,"text":"Hola"}]}`,
			count: 1,
		},
		{
			name:  "leading prose before JSON",
			input: `Here you go: [{"index":0,"text":"Hola"}]`,
			count: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := extractResults(tt.input)
			if err != nil {
				t.Fatalf("extractResults returned error: %v", err)
			}
			if len(results) != tt.count {
				t.Errorf("got %d results, want %d", len(results), tt.count)
			}
		})
	}
}

func TestExtractResultsNoJSON(t *testing.T) {
	if _, err := extractResults("sorry, I cannot translate that"); err == nil {
		t.Error("expected error when no JSON is present")
	}
}

func TestParseBatchResponseCountMismatch(t *testing.T) {
	_, err := parseBatchResponse(`[{"index":0,"text":"Hola"}]`, 2)
	if err == nil {
		t.Error("expected error for result count mismatch")
	}
}

func TestRunBatchesSplitsAndOrders(t *testing.T) {
	items := make([]Item, 7)
	for i := range items {
		items[i] = Item{Index: i, Text: "t"}
	}

	var batchSizes []int
	fn := func(ctx context.Context, batch []Item) ([]Result, error) {
		batchSizes = append(batchSizes, len(batch))
		var out []Result
		for _, item := range batch {
			out = append(out, Result{Index: item.Index, Text: "x"})
		}
		return out, nil
	}

	// Concurrency 1 keeps the batchSizes slice race-free.
	opts := Options{BatchSize: 3, Concurrency: 1}
	results, err := runBatches(context.Background(), items, opts, fn)
	if err != nil {
		t.Fatalf("runBatches returned error: %v", err)
	}

	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d has index %d", i, r.Index)
		}
	}
	if len(batchSizes) != 3 {
		t.Errorf("got %d batches, want 3", len(batchSizes))
	}
}

func TestRunBatchesPropagatesFailure(t *testing.T) {
	items := make([]Item, 6)
	for i := range items {
		items[i] = Item{Index: i, Text: "t"}
	}

	failure := errors.New("quota exceeded")
	fn := func(ctx context.Context, batch []Item) ([]Result, error) {
		if batch[0].Index >= 2 {
			return nil, failure
		}
		return []Result{{Index: batch[0].Index, Text: "x"}}, nil
	}

	opts := Options{BatchSize: 2, Concurrency: 1}
	_, err := runBatches(context.Background(), items, opts, fn)
	if !errors.Is(err, failure) {
		t.Errorf("got %v, want wrapped %v", err, failure)
	}
}
