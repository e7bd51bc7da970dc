package engine

func promptContextualize(history string, question string) (system string, user string) {
	system = `Given a chat history and the latest user question, formulate a standalone question that can be understood without the chat history.
Resolve pronouns and implicit references using the history. Do NOT answer the question.
If the question is already self-contained, return it unchanged.
Return ONLY the reformulated question, nothing else.`
	user = "Chat history:\n" + history + "\n\nLatest question:\n" + question
	return system, user
}

func promptIntent(question string) (system string, user string) {
	system = `You are a routing classifier for a customer support assistant.
Analyze the user message and return ONLY a JSON object with these fields:
{
  "requires_rag": boolean,        // true if answering needs the knowledge base
  "requires_human": boolean,      // true if the user explicitly asks for a human agent
  "complexity_score": integer,    // 0-10, how much reasoning the question needs
  "pricing_intent": boolean,      // true if the user asks about prices, plans, or billing
  "reason": string                // one short sentence
}
Greetings and chit-chat get requires_rag=false and complexity_score 0 or 1.
Return ONLY the JSON object, no markdown fences, no commentary.`
	user = question
	return system, user
}

func promptHyDE(question string) (system string, user string) {
	system = `Write a short, plausible documentation passage that would answer the question below.
Write it as if it came from a product knowledge base: factual tone, 2-4 sentences.
Do not mention that it is hypothetical. Return ONLY the passage.`
	user = question
	return system, user
}

func promptRerank(query string, passage string) (system string, user string) {
	system = `You are a relevance judge. Score how useful the passage is for answering the query.
Return ONLY a JSON object: {"score": n} where n is an integer from 0 (useless) to 10 (directly answers it).
Be strict: give high scores only when the passage directly helps answer the query.`
	user = "Query:\n" + query + "\n\nPassage:\n" + passage
	return system, user
}

func promptAnswer(assistantName string, languages string, external string, context string, history string, question string) (system string, user string) {
	system = `You are ` + assistantName + `, a customer support assistant.

Hierarchy of truth, in order:
1. LIVE DATA below, when present. It overrides everything else.
2. The CONTEXT documents below. They are authoritative for product facts.
3. The conversation history.
4. General knowledge, only for phrasing, never for product facts.

Rules:
- If neither live data nor context contains the answer, say you don't know and suggest contacting support. Never invent product facts, prices, or policies.
- If the user is frustrated, asks for a human, or raises a legal or billing dispute you cannot resolve from the sources, start your reply with the literal tag [HANDOFF] followed by a short message telling the user an agent will take over.
- Answer in the language of the user's question.` + languagesClause(languages) + `
- Be concise and concrete. Quote limits, durations, and amounts exactly as the sources state them.`
	user = ""
	if external != "" {
		user += "LIVE DATA:\n" + external + "\n\n"
	}
	user += "CONTEXT:\n" + context + "\n\nConversation history:\n" + history + "\n\nQuestion:\n" + question
	return system, user
}

func languagesClause(languages string) string {
	if languages == "" {
		return ""
	}
	return " Preferred languages for this workspace: " + languages + "."
}

func promptSmallTalk(assistantName string, history string, question string) (system string, user string) {
	system = `You are ` + assistantName + `, a friendly customer support assistant.
The user is making small talk. Reply warmly in one or two sentences, in the user's language.
Do not invent product facts. Gently offer to help with product questions.`
	user = "Conversation history:\n" + history + "\n\nMessage:\n" + question
	return system, user
}

func promptHandoff(assistantName string, question string) (system string, user string) {
	system = `You are ` + assistantName + `, a customer support assistant.
The user needs a human agent. Write one or two polite sentences, in the user's language, saying a support agent will take over shortly. Do not attempt to answer the question yourself.`
	user = question
	return system, user
}

func promptGrade(question string, context string, answer string) (system string, user string) {
	system = `You are a quality control auditor for an assistant answer.
Checks, in order:
1. Hallucination: is the answer supported by the context?
2. Relevance: does it directly address the question?
3. An honest "I don't know, contact support" for a question the context cannot answer passes.
Return ONLY a JSON object: {"score": n, "reason": "short explanation"} where n is 1 (pass) or 0 (fail).`
	user = "Context:\n" + context + "\n\nQuestion:\n" + question + "\n\nAnswer:\n" + answer
	return system, user
}

func promptRewrite(question string, failureReason string) (system string, user string) {
	system = `A retrieval query failed to surface documents that answer the user's question.
Look at the original question and the reason the answer was rejected, then write a BETTER, more specific search query: expand abbreviations, add likely synonyms, and name the concrete entities involved.
Return ONLY the new query string, nothing else.`
	user = "Original question:\n" + question + "\n\nReason the answer was rejected:\n" + failureReason
	return system, user
}
