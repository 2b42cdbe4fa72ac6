package document

import "fmt"

const answerPromptTemplate = `You are an expert document analyst. Answer the user's question based ONLY on the
provided document context. If the answer is not found in the context, say so clearly.

DOCUMENT CONTEXT:
%s

USER QUESTION: %s

INSTRUCTIONS:
1. Answer the question based ONLY on the information in the document context.
2. If the exact answer is not in the context, provide the most relevant information available.
3. Use markdown formatting for clarity.
4. Cite the page numbers when possible (they appear as [Page X] in the context).
5. Be concise but comprehensive.
6. If the question asks for a summary, provide a structured summary of the content.

ANSWER:`

const summaryPromptTemplate = `You are a document analysis expert. Provide a comprehensive summary of the following document.

DOCUMENT CONTENT:
%s

Please provide:
1. **Document Overview**: What the document is about (2-3 sentences)
2. **Key Topics**: Major topics covered
3. **Important Points**: Key findings, data, or conclusions
4. **Structure**: How the document is organized

Format your response in clear markdown.`

func buildAnswerPrompt(question, context string) string {
	return fmt.Sprintf(answerPromptTemplate, context, question)
}

func buildSummaryPrompt(context string) string {
	return fmt.Sprintf(summaryPromptTemplate, context)
}
