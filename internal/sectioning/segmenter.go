package sectioning

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// Config assembles a Segmenter. Zero fields take defaults: DefaultParams,
// DefaultTable, TokenSortMatcher and a disabled logger. A nil Tagger selects
// degraded mode.
type Config struct {
	Params  Params
	Table   *VariantTable
	Tagger  Tagger
	Matcher Matcher
	Logger  *zerolog.Logger
}

// Segmenter splits resume text into sections. It holds only read-only state
// after New returns, so one instance may serve any number of goroutines.
type Segmenter struct {
	params        Params
	table         *VariantTable
	tagger        Tagger
	matcher       Matcher
	logger        zerolog.Logger
	headingRe     *regexp.Regexp
	projectMarker *regexp.Regexp
}

// New validates cfg and compiles the heading patterns.
func New(cfg Config) (*Segmenter, error) {
	if cfg.Params == (Params{}) {
		cfg.Params = DefaultParams()
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}

	headingRe, err := compileHeadingPattern(cfg.Params.HeadingMinLen, cfg.Params.HeadingMaxLen)
	if err != nil {
		return nil, &ConfigError{Field: "heading_max_len", Message: "failed to compile heading pattern", Cause: err}
	}

	s := &Segmenter{
		params:        cfg.Params,
		table:         cfg.Table,
		tagger:        cfg.Tagger,
		matcher:       cfg.Matcher,
		logger:        zerolog.Nop(),
		headingRe:     headingRe,
		projectMarker: projectMarkerPattern,
	}
	if s.table == nil {
		s.table = DefaultTable()
	}
	if s.matcher == nil {
		s.matcher = TokenSortMatcher{}
	}
	if cfg.Logger != nil {
		s.logger = cfg.Logger.With().Str("component", "sectioning").Logger()
	}
	if s.tagger == nil {
		s.logger.Debug().Msg("no tagger configured, heading detection runs in degraded mode")
	}

	return s, nil
}

// Params returns the thresholds the segmenter was built with.
func (s *Segmenter) Params() Params {
	return s.params
}

// Degraded reports whether the segmenter runs without a tagger.
func (s *Segmenter) Degraded() bool {
	return s.tagger == nil
}

// Segment splits text into sections. It never fails: empty input yields an
// empty map and unattributed lines land in SectionOther unless
// reconciliation moves them into a better section.
func (s *Segmenter) Segment(text string) SectionMap {
	b := newSectionBuilder()

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if key, ok := s.resolveHeading(line); ok {
			b.open(key)
			continue
		}
		b.add(line)
	}
	b.flush()

	result := s.finalize(b.sections)
	Reconcile(result)
	return result
}

// finalize joins buffered lines and splits the projects section.
func (s *Segmenter) finalize(sections map[SectionKey][]string) SectionMap {
	result := make(SectionMap, len(sections))
	for key, lines := range sections {
		if len(lines) == 0 {
			continue
		}
		content := strings.Join(lines, "\n")
		if key == SectionProjects {
			result[key] = ProjectList(s.SplitProjects(content))
			continue
		}
		result[key] = PlainText(content)
	}
	return result
}

// sectionBuilder tracks the open section and its buffered lines during one
// pass. It is never shared between calls.
type sectionBuilder struct {
	current  SectionKey
	hasOpen  bool
	buffer   []string
	sections map[SectionKey][]string
}

func newSectionBuilder() *sectionBuilder {
	return &sectionBuilder{sections: make(map[SectionKey][]string)}
}

// open flushes the current buffer and makes key the current section.
func (b *sectionBuilder) open(key SectionKey) {
	b.flush()
	b.current = key
	b.hasOpen = true
}

// add buffers a content line, or files it under SectionOther when no
// section is open.
func (b *sectionBuilder) add(line string) {
	if !b.hasOpen {
		b.sections[SectionOther] = append(b.sections[SectionOther], line)
		return
	}
	b.buffer = append(b.buffer, line)
}

func (b *sectionBuilder) flush() {
	if b.hasOpen && len(b.buffer) > 0 {
		b.sections[b.current] = append(b.sections[b.current], b.buffer...)
	}
	b.buffer = nil
}
