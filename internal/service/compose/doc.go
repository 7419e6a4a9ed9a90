// Package compose produces the companion's reply for one chat turn.
//
// A turn runs in two sequential passes against the completion service. The
// draft pass is a single blocking completion shaped by the mode tone, the
// bucket template, narrative hints about the user's recent state and the
// rolling conversation summary. The rewrite pass turns the draft into the
// final reply with a fixed discourse shape and is streamed to the caller.
//
// The draft is scored against a structural rubric for observability only.
// Once the whole reply has been delivered, a detached task refreshes the
// user's ConversationSnapshot; its failures are logged and never reach the
// caller.
package compose
