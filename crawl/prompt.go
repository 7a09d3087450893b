package crawl

import (
	"fmt"
	"strings"
)

// systemPrompt frames the model as a metadata extractor that must only
// report what the text supports and must finish with a structured
// invocation.
const systemPrompt = `You are a blog metadata analyst. You are given the main text content of a single blog page, already extracted and cleaned.

Your job is to determine the requested metadata fields from the text alone. Rules:
- Use only information present in the provided text. Never guess or invent values.
- If a field cannot be determined from the text, use the exact string "Not Found".
- Dates use the YYYY-MM-DD format when the text allows it; otherwise keep the text's own form.
- When you are done, call finalize_blog_data_collection exactly once. Put one object with the extracted fields into collected_blogs_summary and set all_tasks_completed to true.`

// defaultFields lists the metadata fields requested when the caller does
// not narrow them.
var defaultFields = []string{
	"blog_name",
	"recent_post_date",
	"first_post_date",
	"total_posts",
	"blog_creation_date",
	"average_visitors",
	"llm_summary",
}

// buildPrompt renders the per-URL user prompt around normalized page
// text.
func buildPrompt(pageURL, text string, fields []string) string {
	if len(fields) == 0 {
		fields = defaultFields
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Page URL: %s\n\n", pageURL)
	b.WriteString("Fields to determine:\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	b.WriteString("\nPage content:\n---\n")
	b.WriteString(text)
	b.WriteString("\n---\n")
	return b.String()
}
