// Skillscout - Course and Peer Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skillscout

package ratings

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column names the loader requires in the CSV header. Order is free;
// extra columns are ignored.
const (
	colStudentID    = "student_id"
	colName         = "name"
	colSkills       = "skills"
	colInteractions = "interactions"
)

// LoadCSV reads student rows from a headered CSV stream. The header must
// contain the student_id, name, skills and interactions columns. A row with
// a non-integer interactions cell is a hard error, consistent with the
// strict posture of the whole training path.
func LoadCSV(r io.Reader) ([]Student, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("student csv: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("student csv: header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range []string{colStudentID, colName, colSkills, colInteractions} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("student csv: missing required column %q", col)
		}
	}

	var students []Student
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("student csv: line %d: %w", line, err)
		}

		interactions, err := strconv.Atoi(strings.TrimSpace(row[idx[colInteractions]]))
		if err != nil {
			return nil, fmt.Errorf("student csv: line %d: interactions: %w", line, err)
		}

		students = append(students, Student{
			ID:           strings.TrimSpace(row[idx[colStudentID]]),
			Name:         strings.TrimSpace(row[idx[colName]]),
			SkillsRaw:    row[idx[colSkills]],
			Interactions: interactions,
		})
	}
	return students, nil
}
