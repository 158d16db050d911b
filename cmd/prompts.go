package cmd

import (
	"fmt"
	"strings"
)

// System roles for the three model-backed stages.
const (
	ExtractorRole  = "You are an expert web content extractor (web scraper)."
	SummarizerRole = "You are an expert summarizer."
	PostWriterRole = "You are an expert social media manager, and you excel at creating viral and" +
		" highly engaging posts for X (formerly Twitter)."
)

// Prompt is the system and user message pair sent for one stage.
type Prompt struct {
	System string
	User   string
}

// ExtractPrompt asks the model for the core text of a page. The HTML is
// embedded verbatim.
func ExtractPrompt(html string) Prompt {
	var sb strings.Builder
	sb.WriteString("Your task is to extract the core content from a given HTML page.\n")
	sb.WriteString("The core content should be the main text, excluding navigation, footers, and\n")
	sb.WriteString("other non-essential elements like scripts, etc. Here is the HTML content:\n")
	sb.WriteString("<html>\n")
	sb.WriteString(html)
	sb.WriteString("\n</html>\n\n")
	sb.WriteString("Please extract the core content and return it as plain text.\n")
	return Prompt{System: ExtractorRole, User: sb.String()}
}

// SummarizePrompt asks for a concise bullet-point summary of content.
// An empty language leaves the output language to the model.
func SummarizePrompt(content, language string) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Your task is to summarize the provided content into a concise and clear summary%s.\n", inLanguage(language))
	sb.WriteString("Here is the content to summarize:\n")
	sb.WriteString("<content>\n")
	sb.WriteString(content)
	sb.WriteString("\n</content>\n\n")
	sb.WriteString("Please provide a brief summary of the main points in the content.\n")
	sb.WriteString("Prefer bullet points and avoid unnecessary explanations.\n")
	return Prompt{System: SummarizerRole, User: sb.String()}
}

// GeneratePrompt asks for an X post about summary, written in the style of
// examples without borrowing their content.
func GeneratePrompt(summary string, examples []Example, language string) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Your task is to generate a post based on a short text summary%s.\n", inLanguage(language))
	sb.WriteString("Your post must be concise and impactful.\n")
	sb.WriteString("Avoid using hashtags and lots of emojis (a few emojis are okay, but not too many).\n")
	sb.WriteString("Keep the post short and focused, structure it in a clean, readable way,\n")
	sb.WriteString("using line breaks and empty lines to enhance readability.\n")
	sb.WriteString("Here's the text summary which you should use to generate the post:\n")
	sb.WriteString("<summary>\n")
	sb.WriteString(summary)
	sb.WriteString("\n</summary>\n\n")
	sb.WriteString("Here are some examples of topics and generated posts:\n")
	sb.WriteString("<examples>\n")
	sb.WriteString(FormatExamples(examples))
	sb.WriteString("</examples>\n\n")
	sb.WriteString("Please use the tone, language, structure, and style of the examples provided above to generate a post that\n")
	sb.WriteString("is engaging and relevant to the topic provided by the user. Don't use the content from the examples!\n")
	return Prompt{System: PostWriterRole, User: sb.String()}
}

// FormatExamples renders examples as <example-N> blocks numbered from 1 in
// slice order.
func FormatExamples(examples []Example) string {
	var sb strings.Builder
	for i, ex := range examples {
		n := i + 1
		fmt.Fprintf(&sb, "<example-%d>\n", n)
		fmt.Fprintf(&sb, "<topic>\n%s\n</topic>\n\n", ex.Topic)
		fmt.Fprintf(&sb, "<generated-post>\n%s\n</generated-post>\n", ex.Post)
		fmt.Fprintf(&sb, "</example-%d>\n", n)
	}
	return sb.String()
}

func inLanguage(language string) string {
	if language == "" {
		return ""
	}
	return " in " + language
}
