package extraction

import (
	"fmt"
	"strings"
	"time"
)

const maxCatalogNamesInPrompt = 400

func buildInstructions(catalogNames []string, today time.Time) string {
	parts := []string{
		"You read orders sent to a fruit and vegetable wholesaler in Italy (chat messages, voice transcripts, photos of handwritten lists).",
		"Return ONLY JSON that matches the provided schema. Never invent products that are not in the order.",
		"One item per product line, in the order written. Keep product_name close to the customer's wording, but use the catalog spelling when the product is clearly the same.",
		"Units: KG (chili, kg), G (grammi, etti: 1 etto = 100 G), PZ (pezzi, numero), CASSA (cassa, cassetta, plateau), MAZZO (mazzo, mazzetto), CONF (confezione, vaschetta, busta, cestino), LT (litri).",
		"If the unit is not stated, infer it from the product category: fruit and most vegetables KG; herbs, asparagus, radishes MAZZO; berries and salad mixes CONF; melons, watermelons, pineapples, lettuce heads, cabbages PZ.",
		"Omit quantity when it is not stated. Quantities use a dot as decimal separator.",
		fmt.Sprintf("Today is %s (%s). Resolve relative delivery dates such as domani or lunedì against today; use YYYY-MM-DD.", today.Format("2006-01-02"), italianWeekday(today.Weekday())),
		"Put delivery instructions, substitutions and anything that is not a product line into notes. Never output null; omit absent fields.",
	}

	if len(catalogNames) > 0 {
		names := catalogNames
		if len(names) > maxCatalogNamesInPrompt {
			names = names[:maxCatalogNamesInPrompt]
		}
		parts = append(parts, "Products currently on sale:\n- "+strings.Join(names, "\n- "))
	}
	return strings.Join(parts, "\n")
}

func italianWeekday(d time.Weekday) string {
	return [...]string{"domenica", "lunedì", "martedì", "mercoledì", "giovedì", "venerdì", "sabato"}[d]
}
