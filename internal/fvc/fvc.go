// Package fvc implements the batch verification protocol: one comparison
// per invocation, one result line appended to a shared log.
package fvc

import (
	"context"
	"fmt"
	"os"

	"github.com/high-horse/sourceafis"
	"github.com/high-horse/sourceafis/matcher"
)

const (
	StatusOK   = "OK"
	StatusFail = "FAIL"
)

// Result is the outcome of one verification.
type Result struct {
	Status     string
	Similarity float64
	// Err is the reason for a FAIL status.
	Err error
}

// Line formats the log line for result.
func Line(probePath, candidatePath string, r Result) string {
	return fmt.Sprintf("%s %s %s %.5f\n", probePath, candidatePath, r.Status, r.Similarity)
}

// Compare loads both templates and matches them. Any failure, including a
// panic while matching, yields a FAIL result with similarity 0.
func Compare(ctx context.Context, probePath, candidatePath string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Status: StatusFail, Err: fmt.Errorf("match panicked: %v", r)}
		}
	}()
	probe, err := sourceafis.LoadTemplate(probePath)
	if err != nil {
		return Result{Status: StatusFail, Err: err}
	}
	candidate, err := sourceafis.LoadTemplate(candidatePath)
	if err != nil {
		return Result{Status: StatusFail, Err: err}
	}
	m, err := sourceafis.NewMatcher(nil, probe)
	if err != nil {
		return Result{Status: StatusFail, Err: err}
	}
	score := m.Match(ctx, candidate)
	return Result{Status: StatusOK, Similarity: score / matcher.MaxScore}
}

// Verify runs Compare and appends its line to logPath. The returned error
// only concerns writing the log; comparison failures are recorded in it.
func Verify(ctx context.Context, probePath, candidatePath, logPath string) (Result, error) {
	result := Compare(ctx, probePath, candidatePath)
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return result, fmt.Errorf("failed to open log %s: %w", logPath, err)
	}
	if _, err := f.WriteString(Line(probePath, candidatePath, result)); err != nil {
		f.Close()
		return result, fmt.Errorf("failed to write log %s: %w", logPath, err)
	}
	return result, f.Close()
}
