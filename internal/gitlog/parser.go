package gitlog

import (
	"strconv"
	"strings"
)

const (
	commitMarker = "^^^^^COMMIT^^^^^"
	msgEndMarker = "^^^^^MSG_END^^^^^"
	fieldSep     = "|||"

	// prettyFormat emits the commit marker, a |||-joined header line
	// (date, hash, author, unix time), the raw body and the end marker.
	prettyFormat = "--pretty=format:" + commitMarker + "%n%ad" + fieldSep + "%H" + fieldSep + "%an" + fieldSep + "%at%n%B%n" + msgEndMarker
)

// LogArgs returns the git log arguments for the inclusive calendar range start..end.
func LogArgs(start, end string) []string {
	return []string{
		"log",
		"--all",
		"--since=" + start + " 00:00:00",
		"--until=" + end + " 23:59:59",
		"--no-merges",
		"--date=format:%Y-%m-%d",
		"--numstat",
		prettyFormat,
	}
}

type parseState int

const (
	stateScan parseState = iota
	stateHeader
	stateMessage
	stateStats
)

// ParseLog turns the output of a LogArgs invocation into commits, in output order.
// The second return value holds the hashes of those commits in the same order.
//
// Parsing never fails as a whole: a record with a malformed header is dropped
// and scanning resumes at the next commit marker.
func ParseLog(output, repoName string) ([]Commit, []string) {
	lines := splitLines(output)

	var (
		commits []Commit
		hashes  []string
		cur     Commit
		body    []string
	)

	emit := func() {
		commits = append(commits, cur)
		hashes = append(hashes, cur.Hash)
	}

	state := stateScan
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		switch state {
		case stateScan:
			if line == commitMarker {
				state = stateHeader
			}

		case stateHeader:
			c, ok := parseHeader(line, repoName)
			if !ok {
				state = stateScan
				continue
			}
			cur = c
			body = body[:0]
			state = stateMessage

		case stateMessage:
			if line == msgEndMarker {
				cur.Message = strings.TrimSpace(strings.Join(body, "\n"))
				state = stateStats
				continue
			}
			body = append(body, line)

		case stateStats:
			if line == commitMarker {
				emit()
				state = stateHeader
				continue
			}
			ins, del := parseStat(line)
			cur.Insertions += ins
			cur.Deletions += del
		}
	}

	switch state {
	case stateMessage:
		// Output ended before the end marker; keep what we have.
		cur.Message = strings.TrimSpace(strings.Join(body, "\n"))
		emit()
	case stateStats:
		emit()
	}

	return commits, hashes
}

func parseHeader(line, repoName string) (Commit, bool) {
	parts := strings.Split(line, fieldSep)
	if len(parts) < 4 {
		return Commit{}, false
	}

	hash := strings.TrimSpace(parts[1])
	if hash == "" {
		return Commit{}, false
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(parts[3]), 10, 64)
	if err != nil {
		ts = 0
	}

	return Commit{
		Date:      strings.TrimSpace(parts[0]),
		Hash:      hash,
		Author:    strings.TrimSpace(parts[2]),
		Branch:    UnknownBranch,
		RepoName:  repoName,
		Timestamp: ts,
	}, true
}

// parseStat reads a numstat line. Binary files report "-" and count as zero.
func parseStat(line string) (int, int) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, 0
	}
	return statCount(fields[0]), statCount(fields[1])
}

func statCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// splitLines splits on newlines, dropping a trailing CR per line and the
// empty element after a final newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
