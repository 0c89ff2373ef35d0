// Package prompts composes the generation and repair prompts for the
// text-to-SQL pipeline. Every builder is a pure function of its
// arguments so the pipeline can be tested with fake generators.
package prompts

import (
	"fmt"
	"strings"
)

// GenerationSystemMessage instructs the model to emit a bare SQL query.
const GenerationSystemMessage = `You are a helpful assistant that outputs only PostgreSQL SQL queries without any explanation.`

// RepairSystemMessage instructs the model to emit a corrected SQL query.
const RepairSystemMessage = `You are a helpful assistant that outputs only corrected PostgreSQL SQL queries without any explanation.`

const generationTemplate = `### Instructions ###
You are a PostgreSQL expert. Your task is to generate a SQL query based on the user's question and the provided database schema.
Only use the tables and columns provided in the schema.
Generate a single, executable PostgreSQL query. Do not add any explanations or comments in the SQL itself.

### Database Schema ###
%s

### User Question ###
%s

### SQL Query ###
`

const repairTemplate = `### Instructions ###
You are a PostgreSQL expert. You previously generated a SQL query that failed to execute. Your task is to fix the query based on the error message.
Only use the tables and columns provided in the schema.
Generate a single, executable PostgreSQL query. Do not add any explanations or comments in the SQL itself.

### Database Schema ###
%s

### User Question ###
%s

### Previous Failed SQL ###
%s

### PostgreSQL Error Message ###
%s

### Corrected SQL Query ###
`

// BuildGenerationPrompt composes the first-attempt prompt from the
// question and the retrieved schema context blocks.
func BuildGenerationPrompt(question string, schemaContext []string) string {
	return fmt.Sprintf(generationTemplate, joinContext(schemaContext), question)
}

// BuildRepairPrompt composes a repair prompt carrying the original
// question, the same schema context, and the failing SQL with its
// error text verbatim. The error is never summarized or interpreted;
// that is the model's job.
func BuildRepairPrompt(question string, schemaContext []string, failedSQL, errorMessage string) string {
	return fmt.Sprintf(repairTemplate, joinContext(schemaContext), question, failedSQL, errorMessage)
}

// joinContext stacks schema blocks separated by blank lines.
func joinContext(schemaContext []string) string {
	return strings.Join(schemaContext, "\n\n")
}
