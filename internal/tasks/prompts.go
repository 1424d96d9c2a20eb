package tasks

import "fmt"

const (
	analystSystemPrompt = "You are an expert video content analyst. " +
		"Your goal is to extract the core topics, key takeaways, and tone from video transcripts."

	researcherSystemPrompt = "You are a senior web researcher. Generate precise search queries."

	bloggerSystemPrompt = "You are a professional blog writer. " +
		"You write engaging, viral-ready, and SEO-optimized articles."
)

func analysisPrompt(transcript string) string {
	return fmt.Sprintf(`Analyze the following YouTube Video Transcript.

NOTE: The transcript might be in a foreign language.
You MUST translate the concepts and Output the final analysis in ENGLISH.

Transcript (Truncated):
%s

Output a structured summary containing:
1. Main Topic
2. Key Points (Bullet points)
3. The tone of the video
4. Important keywords
`, transcript)
}

func queryPrompt(analysis string) string {
	return fmt.Sprintf(`Based on the following video analysis, generate 3 specific, high-quality search queries to find the latest updates, confirmed news, or verified facts.

Video Analysis:
%s

OUTPUT FORMAT:
Return ONLY a raw JSON list of strings. Do not use Markdown code blocks.
Example: ["query 1", "query 2", "query 3"]
`, analysis)
}

func blogPrompt(analysis, research string) string {
	return fmt.Sprintf(`Create a high-quality blog post based on the following information.

SOURCE 1: Video Analysis (Core Content)
%s

SOURCE 2: External Research (Latest Context)
%s

Requirements:
- Catchy Title (Make it click-worthy)
- Engaging Introduction (Hook the reader immediately)
- Well-structured body with clear headers
- Integrate the external research naturally to add value
- Conclusion with a call to action
- Use Markdown formatting
- Tone: Fun, informative, and accessible to general readers
`, analysis, research)
}
