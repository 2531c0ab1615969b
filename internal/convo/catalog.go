package convo

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"bot-pedidos/internal/repo"
	"bot-pedidos/internal/util"
)

var quantityRegex = regexp.MustCompile(`^\s*(\d{1,2})\s*(?:x\s*)?`)

type scoredProduct struct {
	Product repo.Product
	Score   int
}

// parseItemRequest splits "2 tacos al pastor" into a quantity and the query
// remainder. Missing quantity defaults to one.
func parseItemRequest(text string) (int, string) {
	quantity := 1
	if m := quantityRegex.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			quantity = n
			text = text[len(m[0]):]
		}
	}
	return quantity, strings.TrimSpace(text)
}

// matchProducts scores catalog items against a free-text query and returns
// the best candidates, ties broken by price.
func matchProducts(products []repo.Product, query string, limit int) []repo.Product {
	tokens := util.Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	var scored []scoredProduct
	for _, p := range products {
		score := productScore(p, tokens)
		if score > 0 {
			scored = append(scored, scoredProduct{Product: p, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score == scored[j].Score {
			return scored[i].Product.Price < scored[j].Product.Price
		}
		return scored[i].Score > scored[j].Score
	})

	if limit <= 0 {
		limit = 5
	}
	top := make([]repo.Product, 0, limit)
	for _, sc := range scored {
		top = append(top, sc.Product)
		if len(top) == limit {
			break
		}
	}
	return top
}

func productScore(p repo.Product, tokens []string) int {
	name := util.Normalize(p.Name)
	code := util.Normalize(p.ProductID)
	category := util.Normalize(p.Category)
	description := util.Normalize(p.Description)

	score := 0
	for _, token := range tokens {
		if strings.Contains(name, token) {
			score += 4
		}
		if strings.Contains(code, token) {
			score += 5
		}
		if strings.Contains(category, token) {
			score += 3
		}
		if strings.Contains(description, token) {
			score++
		}
	}
	return score
}

func groupByCategory(products []repo.Product) (map[string][]repo.Product, []string) {
	grouped := map[string][]repo.Product{}
	order := []string{}
	for _, p := range products {
		category := strings.TrimSpace(p.Category)
		if category == "" {
			category = "Otros"
		}
		if _, ok := grouped[category]; !ok {
			order = append(order, category)
		}
		grouped[category] = append(grouped[category], p)
	}
	return grouped, order
}

func formatMenu(products []repo.Product) string {
	grouped, order := groupByCategory(products)
	if len(order) == 0 {
		return "Lo siento, el menú no está disponible en este momento."
	}

	var b strings.Builder
	b.WriteString("📋 *NUESTRO MENÚ*\n\n")
	for _, category := range order {
		fmt.Fprintf(&b, "🔹 *%s*\n\n", category)
		for _, p := range grouped[category] {
			mark := "✅"
			if !p.Available {
				mark = "❌"
			}
			fmt.Fprintf(&b, "%s *%s* - %s\n   %s\n\n", mark, p.Name, formatCurrency(p.Price), p.Description)
		}
	}
	b.WriteString("\n💬 Escribe *pedido* para hacer tu orden")
	return b.String()
}

func formatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
