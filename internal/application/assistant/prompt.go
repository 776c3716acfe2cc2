package assistant

import (
	"fmt"
	"strings"

	"github.com/xiebiao/bookshelf/internal/domain/book"
)

const emptyCatalog = "No books currently in inventory."

func summaryPrompt(title, author string) string {
	return fmt.Sprintf(`Summarize the book "%s" by %s in about 60 words. Be professional, engaging, and highlight what makes it special.`,
		title, author)
}

// roadmapPrompt 目录只给书名、作者、分类
func roadmapPrompt(goal string, books []*book.Book) string {
	var catalog strings.Builder
	for _, b := range books {
		fmt.Fprintf(&catalog, "%q by %s (%s)\n", b.Title, b.Author, b.Category)
	}

	return fmt.Sprintf(`You are a reading roadmap expert. A user wants to: %q.

Create a structured, step-by-step learning roadmap with 5-7 stages. For each stage:
- Give it a clear title
- Explain what to learn or focus on (2-3 sentences)
- Recommend 1-2 books. If a book from our store matches, mark it as [AVAILABLE IN OUR STORE]. Otherwise mark it as [EXTERNAL RECOMMENDATION].

Our store currently has these books:
%s
Format the response clearly with numbered stages. Keep it motivating and actionable.`,
		goal, orEmpty(catalog.String()))
}

// chatPrompt 目录带价格和实时库存
func chatPrompt(message string, books []*book.Book) string {
	var catalog strings.Builder
	for _, b := range books {
		stock := "OUT OF STOCK"
		if b.InStock() {
			stock = fmt.Sprintf("%d copies available", b.Stock)
		}
		fmt.Fprintf(&catalog, "- %q by %s | Category: %s | Price: ¥%s | Stock: %s\n",
			b.Title, b.Author, b.Category, yuan(b.Price), stock)
	}

	return fmt.Sprintf(`You are a helpful assistant for BOOKSHELF, an online bookstore.
You have access to the current live inventory listed below. Use this data to answer the user's question accurately.

=== CURRENT INVENTORY ===
%s=========================

User's question: %q

Instructions:
- If the user asks about availability of a specific book, tell them exactly how many copies are left.
- If a book is OUT OF STOCK, clearly say so.
- If the user asks for recommendations, suggest books from the inventory that are in stock.
- Keep your reply friendly, concise (under 100 words), and helpful.
- Do not make up books that aren't in the inventory.`,
		orEmpty(catalog.String()), message)
}

func orEmpty(catalog string) string {
	if catalog == "" {
		return emptyCatalog + "\n"
	}
	return catalog
}

// yuan 分转元
func yuan(fen int64) string {
	return fmt.Sprintf("%d.%02d", fen/100, fen%100)
}
