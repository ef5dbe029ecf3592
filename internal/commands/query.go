// Package commands implements the CLI commands for the task report generator
package commands

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"task-reports/internal/config"
	"task-reports/internal/database"
	"task-reports/internal/report"
)

// DefaultInventoryQuery summarises the reports of every user
const DefaultInventoryQuery = `SELECT username,
       SUM(kind = 'archived') AS archived,
       MAX(CASE WHEN kind = 'current' THEN generated_at END) AS latest,
       MAX(CASE WHEN kind = 'current' THEN completed END) AS completed,
       MAX(CASE WHEN kind = 'current' THEN remaining END) AS remaining
FROM reports
GROUP BY username
ORDER BY username`

// NewQueryCommand creates the 'query' subcommand for inspecting the report directory
// Usage: task-reports query [--dir tasks] [--sql "SELECT * FROM reports"]
func NewQueryCommand() *cobra.Command {
	var reportDir string
	var sqlQuery string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the current and archived reports with SQL",
		Long: `Scan the report directory into an in-memory SQLite table and run a read-only
SQL query against it. Nothing is written to disk.

The table is named reports and has the columns:
  username, kind ('current' or 'archived'), generated_at, path, size,
  completed, remaining

SECURITY: Only read-only queries are allowed. Write operations (INSERT, UPDATE, DELETE,
CREATE, DROP, etc.) are blocked.

Without --sql a per-user summary is printed.

Example queries:
  # Users whose current report still has open tasks
  SELECT username, remaining FROM reports WHERE kind = 'current' AND remaining > 0;

  # Number of archived generations per user
  SELECT username, COUNT(*) FROM reports WHERE kind = 'archived' GROUP BY username;

Direct query:
  task-reports query --dir tasks --sql "SELECT COUNT(*) FROM reports"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryCommand(cmd.OutOrStdout(), reportDir, sqlQuery)
		},
	}

	cmd.Flags().StringVarP(&reportDir, "dir", "d", config.DefaultReportDir, config.ReportDirDescription)
	cmd.Flags().StringVarP(&sqlQuery, "sql", "s", "", "SQL query to execute (default: per-user summary)")

	return cmd
}

// runQueryCommand loads the inventory and executes the query
func runQueryCommand(out io.Writer, reportDir, sqlQuery string) error {
	if sqlQuery == "" {
		sqlQuery = DefaultInventoryQuery
	}

	// Validate before scanning so a rejected query costs nothing
	if err := ValidateReadOnlyQuery(sqlQuery); err != nil {
		return fmt.Errorf("query validation failed: %w", err)
	}

	entries, err := report.Scan(reportDir)
	if err != nil {
		return fmt.Errorf("failed to scan reports: %w", err)
	}

	db, err := database.Initialize(database.InMemory)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if _, err := database.InsertReportEntries(db, entries); err != nil {
		return fmt.Errorf("failed to load reports: %w", err)
	}

	columns, results, err := database.ExecuteQuery(db, sqlQuery)
	if err != nil {
		return fmt.Errorf("query execution failed: %w", err)
	}

	displayResults(out, columns, results)
	return nil
}

// displayResults formats and prints query results in column order
func displayResults(out io.Writer, columns []string, results []map[string]interface{}) {
	if len(results) == 0 {
		fmt.Fprintln(out, "No results found.")
		return
	}

	// Print header
	for i, column := range columns {
		if i > 0 {
			fmt.Fprint(out, " | ")
		}
		fmt.Fprintf(out, "%-15s", column)
	}
	fmt.Fprintln(out)

	// Print separator
	for i := range columns {
		if i > 0 {
			fmt.Fprint(out, " | ")
		}
		fmt.Fprint(out, strings.Repeat("-", 15))
	}
	fmt.Fprintln(out)

	// Print rows
	for _, row := range results {
		for i, column := range columns {
			if i > 0 {
				fmt.Fprint(out, " | ")
			}
			fmt.Fprintf(out, "%-15v", formatValue(row[column]))
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "\n(%d rows)\n", len(results))
}

// formatValue renders NULL as an empty cell
func formatValue(v interface{}) interface{} {
	if v == nil {
		return ""
	}
	return v
}

// ValidateReadOnlyQuery ensures the SQL query is read-only and safe to execute
// Prevents data modification, schema changes, and other potentially harmful operations
func ValidateReadOnlyQuery(query string) error {
	// Normalize query: trim whitespace and convert to lowercase
	normalizedQuery := strings.TrimSpace(strings.ToLower(query))

	// Remove comments (basic comment removal)
	// Remove single-line comments (-- comment)
	commentRegex := regexp.MustCompile(`--.*`)
	normalizedQuery = commentRegex.ReplaceAllString(normalizedQuery, "")

	// Remove multi-line comments (/* comment */)
	multiCommentRegex := regexp.MustCompile(`/\*.*?\*/`)
	normalizedQuery = multiCommentRegex.ReplaceAllString(normalizedQuery, "")

	// Trim again after comment removal
	normalizedQuery = strings.TrimSpace(normalizedQuery)

	if normalizedQuery == "" {
		return fmt.Errorf("empty query")
	}

	// Define allowed read-only operations
	allowedPrefixes := []string{
		"select",    // SELECT queries
		"with",      // Common Table Expressions (CTEs)
		"explain",   // Query execution plans
	}

	// Check if query starts with an allowed operation
	queryStartsWithAllowed := false
	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(normalizedQuery, prefix) {
			queryStartsWithAllowed = true
			break
		}
	}

	// Allow specific PRAGMA queries that are read-only
	if strings.HasPrefix(normalizedQuery, "pragma") {
		allowedPragmas := []string{
			"pragma table_info(",
			"pragma index_list(",
			"pragma index_info(",
			"pragma foreign_key_list(",
			"pragma schema_version",
			"pragma user_version",
			"pragma database_list",
			"pragma compile_options",
		}

		pragmaAllowed := false
		for _, allowedPragma := range allowedPragmas {
			if strings.HasPrefix(normalizedQuery, allowedPragma) {
				pragmaAllowed = true
				break
			}
		}

		if !pragmaAllowed {
			return fmt.Errorf("PRAGMA statement not allowed. Only read-only PRAGMA statements are permitted")
		}
		queryStartsWithAllowed = true
	}

	if !queryStartsWithAllowed {
		return fmt.Errorf("only read-only queries are allowed (SELECT, WITH, EXPLAIN, and read-only PRAGMA)")
	}

	// Define forbidden keywords that indicate write operations
	forbiddenKeywords := []string{
		"insert", "update", "delete", "drop", "create", "alter",
		"truncate", "replace", "merge", "upsert",
		"attach", "detach", "vacuum", "reindex",
		"begin", "commit", "rollback", "savepoint",
	}

	// Check for forbidden keywords anywhere in the query
	for _, keyword := range forbiddenKeywords {
		// Use word boundary regex to match whole words only
		keywordRegex := regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
		if keywordRegex.MatchString(normalizedQuery) {
			return fmt.Errorf("forbidden keyword '%s' detected. Only read-only operations are allowed", strings.ToUpper(keyword))
		}
	}

	// Additional safety: check for semicolon-separated statements
	statements := strings.Split(normalizedQuery, ";")
	if len(statements) > 2 { // Allow one statement + empty string after final semicolon
		return fmt.Errorf("multiple statements not allowed. Please execute one query at a time")
	}

	// Validate that we don't have nested forbidden operations in subqueries
	if strings.Contains(normalizedQuery, "(") && strings.Contains(normalizedQuery, ")") {
		// Extract content within parentheses and validate recursively
		// This is a simple check - a more sophisticated parser might be needed for complex cases
		for _, keyword := range forbiddenKeywords {
			keywordRegex := regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
			if keywordRegex.MatchString(normalizedQuery) {
				return fmt.Errorf("forbidden keyword '%s' detected in subquery. Only read-only operations are allowed", strings.ToUpper(keyword))
			}
		}
	}

	return nil
}
