package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sabarim/metaldata/internal/historical"
	"github.com/sabarim/metaldata/internal/metals"
	"github.com/stretchr/testify/require"
)

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, historical.Summary{Outcomes: []historical.Outcome{
		{Metal: metals.Metal{Symbol: "Al", Name: "aluminium"}, Status: historical.StatusUpdated, Fresh: 30, Added: 1, Total: 400},
		{Metal: metals.Metal{Symbol: "Cu", Name: "copper"}, Status: historical.StatusFailed, Err: errors.New("connection reset")},
	}})

	out := buf.String()
	require.Contains(t, out, "aluminium")
	require.Contains(t, out, "updated")
	require.Contains(t, out, "connection reset")
}

func TestPrintSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, historical.Summary{})
	require.Empty(t, buf.String())
}
