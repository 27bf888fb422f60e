// Package gemini implements [minerva.Provider] and [minerva.Summarizer]
// for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between the domain
// types and the Gemini API types. Streaming uses the SDK's iter.Seq2
// iterator, wrapped into the pull-based [minerva.ChunkStream] interface.
// Replies are grounded with Google Search, so chunks may carry citation
// metadata.
package gemini

const (
	defaultChatModel  = "gemini-2.5-flash"
	defaultTitleModel = "gemini-2.5-flash-lite"

	systemInstruction = "You are Minerva, an intelligent and helpful AI assistant. " +
		"You provide clear, concise, and accurate information. When you use " +
		"search tools, ensure you integrate the information naturally."

	titlePromptFormat = "Generate a very short, 3-5 word concise title for a " +
		"chat that starts with this message: %q. Do not use quotes."
)
