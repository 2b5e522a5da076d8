package database

// Batch transactions.
//
// SurrealDB transactions are statement blocks: every statement between
// BEGIN TRANSACTION and COMMIT TRANSACTION is sent in a single request and
// either all apply or none do. There is no interactive transaction handle,
// so there is no isolation between Add() calls and nothing to roll back
// before Execute().
//
//	batch := NewAtomicBatch()
//	batch.Add("DELETE comment WHERE blog = type::record($blog)", vars)
//	batch.Add("DELETE type::record($blog)", vars)
//	err := batch.Execute(ctx, db)

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// TxBuilder builds transaction blocks with per-statement variable namespacing
// so that two statements may both use $id without colliding.
type TxBuilder struct {
	statements []string
	vars       map[string]interface{}
	counter    int
}

// NewTxBuilder creates a new transaction builder
func NewTxBuilder() *TxBuilder {
	return &TxBuilder{
		vars: make(map[string]interface{}),
	}
}

// Add appends a statement, renaming each $var to $v<n>_var
func (tb *TxBuilder) Add(query string, vars map[string]interface{}) {
	// Longest names first so $blog_id is rewritten before $blog
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	rewritten := query
	for _, name := range names {
		tb.counter++
		ns := fmt.Sprintf("v%d_%s", tb.counter, name)
		rewritten = strings.ReplaceAll(rewritten, "$"+name, "$"+ns)
		tb.vars[ns] = vars[name]
	}

	tb.statements = append(tb.statements, rewritten)
}

// Build returns the complete transaction block and merged variables
func (tb *TxBuilder) Build() (string, map[string]interface{}) {
	if len(tb.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range tb.statements {
		sb.WriteString(strings.TrimSuffix(strings.TrimSpace(stmt), ";"))
		sb.WriteString(";\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")

	return sb.String(), tb.vars
}

// AtomicBatch accumulates statements that must apply together
type AtomicBatch struct {
	queries []batchQuery
}

type batchQuery struct {
	query string
	vars  map[string]interface{}
}

// NewAtomicBatch creates a new atomic batch
func NewAtomicBatch() *AtomicBatch {
	return &AtomicBatch{}
}

// Add adds a query to the batch
func (ab *AtomicBatch) Add(query string, vars map[string]interface{}) *AtomicBatch {
	ab.queries = append(ab.queries, batchQuery{query: query, vars: vars})
	return ab
}

// Execute runs all queries as a single transaction
func (ab *AtomicBatch) Execute(ctx context.Context, db Database) error {
	if len(ab.queries) == 0 {
		return nil
	}

	tb := NewTxBuilder()
	for _, q := range ab.queries {
		tb.Add(q.query, q.vars)
	}

	query, vars := tb.Build()
	return db.Execute(ctx, query, vars)
}

// Len returns the number of queries in the batch
func (ab *AtomicBatch) Len() int {
	return len(ab.queries)
}
