package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var timecodeRegex = regexp.MustCompile(
	`(\d{2,}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2,}):(\d{2}):(\d{2}),(\d{3})`,
)

// OpenSRT parses a SubRip file into a Track. Entry numbers in the file are
// ignored; segment order is file order.
func OpenSRT(path string) (*Track, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SRT file: %w", err)
	}
	defer file.Close()

	var segments []Segment
	scanner := bufio.NewScanner(file)

	var current *Segment
	var haveTiming bool
	var textLines []string
	lineNum := 0

	flush := func() {
		if current != nil && haveTiming {
			current.Text = strings.Join(textLines, "\n")
			segments = append(segments, *current)
		}
		current = nil
		haveTiming = false
		textLines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil {
			if _, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
				current = &Segment{}
				continue
			}
		}

		if current != nil && !haveTiming {
			matches := timecodeRegex.FindStringSubmatch(line)
			if len(matches) == 9 {
				start, err := parseTimecode(
					matches[1], matches[2], matches[3], matches[4],
				)
				if err != nil {
					return nil, fmt.Errorf(
						"invalid start timecode at line %d: %w",
						lineNum,
						err,
					)
				}
				end, err := parseTimecode(
					matches[5], matches[6], matches[7], matches[8],
				)
				if err != nil {
					return nil, fmt.Errorf(
						"invalid end timecode at line %d: %w",
						lineNum,
						err,
					)
				}
				current.Start = start
				current.End = end
				haveTiming = true
				continue
			}
			return nil, fmt.Errorf(
				"expected timecode line at line %d, got %q",
				lineNum,
				line,
			)
		}

		if current != nil {
			textLines = append(textLines, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT file: %w", err)
	}

	return &Track{Segments: segments}, nil
}

func parseTimecode(hours, minutes, seconds, millis string) (float64, error) {
	h, err := strconv.Atoi(hours)
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, err
	}
	s, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, err
	}
	ms, err := strconv.Atoi(millis)
	if err != nil {
		return 0, err
	}

	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000, nil
}
