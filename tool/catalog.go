// Package tool declares the capability catalogue offered to the model
// and implements the interpreter that turns model replies back into
// validated invocations and field maps.
package tool

import "github.com/jeongsoo1975/blogscout"

// DefaultCatalog declares the capabilities the collection pipeline
// offers to the model.
func DefaultCatalog() blogscout.Catalog {
	return blogscout.Catalog{
		"search_web_for_blogs": {
			Name:        "search_web_for_blogs",
			Description: "Search the web for blog posts matching a keyword and return candidate URLs.",
			Params: map[string]blogscout.Param{
				"keyword": {
					Type:        "string",
					Description: "Search keyword, e.g. '서울 맛집 블로그'.",
				},
			},
			Required: []string{"keyword"},
		},
		"get_webpage_content_and_interact": {
			Name:        "get_webpage_content_and_interact",
			Description: "Load a webpage in the browser, extract its main content, and optionally perform a page action first.",
			Params: map[string]blogscout.Param{
				"url": {
					Type:        "string",
					Description: "Absolute URL of the page to load.",
				},
				"fields_to_extract": {
					Type:        "array",
					Elem:        "string",
					Description: "Names of the metadata fields to look for on the page.",
				},
				"action_details": {
					Type:        "object",
					Description: "Optional page action to perform before extraction, e.g. a click target.",
				},
			},
			Required: []string{"url", "fields_to_extract"},
			Optional: []string{"action_details"},
		},
		"extract_blog_fields_from_text": {
			Name:        "extract_blog_fields_from_text",
			Description: "Extract structured blog metadata fields from already collected page text.",
			Params: map[string]blogscout.Param{
				"text_content": {
					Type:        "string",
					Description: "Normalized page text to extract fields from.",
				},
				"original_url": {
					Type:        "string",
					Description: "URL the text was collected from.",
				},
			},
			Required: []string{"text_content", "original_url"},
		},
		"finalize_blog_data_collection": {
			Name:        "finalize_blog_data_collection",
			Description: "Report the collected blog records and declare the collection task finished.",
			Params: map[string]blogscout.Param{
				"collected_blogs_summary": {
					Type:        "array",
					Elem:        "object",
					Description: "One object per collected blog with its metadata fields.",
				},
				"all_tasks_completed": {
					Type:        "boolean",
					Description: "Whether every requested URL has been processed.",
				},
				"quality_score": {
					Type:        "number",
					Description: "Optional self-assessed quality score between 0 and 1.",
				},
				"recommendations": {
					Type:        "array",
					Elem:        "string",
					Description: "Optional suggestions for improving future collection runs.",
				},
			},
			Required: []string{"collected_blogs_summary", "all_tasks_completed"},
			Optional: []string{"quality_score", "recommendations"},
		},
	}
}
