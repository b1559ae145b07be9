// Package cli handles cmd line input for DBG and testing the search pipeline
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/AppleLamps/grokipedia-sdk/internal/utils"
	"github.com/AppleLamps/grokipedia-sdk/pkg/catalog"
)

// QueryHandler processes user input from stdin, running searches
// against the loaded catalog. It accepts flags to control the result
// limit, the similarity threshold, and whether fuzzy matching runs.
type QueryHandler struct {
	manager       *catalog.Manager
	limit         int
	minSimilarity float64
	fuzzy         bool
	diag          bool
	requestCount  int
}

// NewQueryHandler handles initialization of the QueryHandler with basic parameters
func NewQueryHandler(manager *catalog.Manager, limit int, minSimilarity float64, fuzzy, diag bool) *QueryHandler {
	return &QueryHandler{
		manager:       manager,
		limit:         limit,
		minSimilarity: minSimilarity,
		fuzzy:         fuzzy,
		diag:          diag,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *QueryHandler) Start() error {
	log.Print("SlugSearch CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type an article name and press Enter to search (Ctrl+C to exit):")
	log.Print("commands: :best <q>, :prefix <p>, :random <n>, :count, :reload")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			h.handleCommand(line)
			continue
		}
		h.handleQuery(line)
	}
}

// handleQuery runs a single search and prints the ranked results.
func (h *QueryHandler) handleQuery(query string) {
	h.requestCount++

	ix := h.manager.Current()
	if ix == nil {
		log.Errorf("Catalog not loaded yet (state: %s)", h.manager.State())
		return
	}

	start := time.Now()
	results := ix.Search(query, h.limit, h.fuzzy, h.minSimilarity)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for query '%s'", elapsed, query)

	if h.diag {
		h.printDiag(query)
	}

	if len(results) == 0 {
		log.Warnf("No matches found for: '%s'", query)
		return
	}

	log.Printf("Found %d matches for '%s':", len(results), query)
	for i, slug := range results {
		clSlug := fmt.Sprintf("\033[38;5;75m%s\033[0m", slug)
		log.Printf("%2d. %s", i+1, clSlug)
	}
}

// printDiag contrasts the substring-only pass with the full fuzzy
// pipeline so threshold tuning can be done interactively.
func (h *QueryHandler) printDiag(query string) {
	ix := h.manager.Current()

	start := time.Now()
	literal := ix.Search(query, h.limit, false, h.minSimilarity)
	literalElapsed := time.Since(start)

	start = time.Now()
	fuzzy := ix.Search(query, h.limit, true, h.minSimilarity)
	fuzzyElapsed := time.Since(start)

	log.Printf("[diag] literal: %d results in %v", len(literal), literalElapsed)
	log.Printf("[diag] fuzzy:   %d results in %v", len(fuzzy), fuzzyElapsed)
	for _, slug := range fuzzy {
		tag := "fuzzy-only"
		for _, l := range literal {
			if l == slug {
				tag = "literal"
				break
			}
		}
		log.Printf("[diag]   %-50s (%s)", slug, tag)
	}
}

// handleCommand dispatches the colon commands.
func (h *QueryHandler) handleCommand(line string) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	ix := h.manager.Current()
	if ix == nil && cmd != ":reload" {
		log.Errorf("Catalog not loaded yet (state: %s)", h.manager.State())
		return
	}

	switch cmd {
	case ":best":
		if arg == "" {
			log.Error("usage: :best <query>")
			return
		}
		if slug, ok := ix.FindBestMatch(arg); ok {
			log.Printf("best match: %s", slug)
		} else {
			log.Warnf("No match found for: '%s'", arg)
		}
	case ":prefix":
		if arg == "" {
			log.Error("usage: :prefix <prefix>")
			return
		}
		for i, slug := range ix.ListByPrefix(arg, h.limit) {
			log.Printf("%2d. %s", i+1, slug)
		}
	case ":random":
		n := 5
		if arg != "" {
			parsed, err := strconv.Atoi(arg)
			if err != nil || parsed < 1 {
				log.Error("usage: :random <n>")
				return
			}
			n = parsed
		}
		for i, slug := range ix.RandomSample(n) {
			log.Printf("%2d. %s", i+1, slug)
		}
	case ":count":
		log.Printf("%s slugs indexed", utils.FormatWithCommas(ix.TotalCount()))
	case ":reload":
		start := time.Now()
		fresh, err := h.manager.Reload()
		if err != nil {
			log.Errorf("Reload failed: %v", err)
			return
		}
		log.Printf("reloaded %s slugs in %v", utils.FormatWithCommas(fresh.TotalCount()), time.Since(start))
	default:
		log.Errorf("Unknown command: %s", cmd)
	}
}
