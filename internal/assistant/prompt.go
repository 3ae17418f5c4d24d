package assistant

import (
	"fmt"
	"strings"

	"github.com/pourrice/pourrice/internal/nearby"
	"github.com/pourrice/pourrice/internal/restaurant"
)

// BuildPrompt wraps the user's question with the assistant persona, the
// answer language and, when known, the restaurants near the user.
func BuildPrompt(question, lang string, nearbyItems []nearby.Item) string {
	var b strings.Builder

	b.WriteString(`You are the PourRice dining assistant for vegan and vegetarian restaurants in Hong Kong.
- Answer briefly and helpfully.
- Only recommend restaurants from the list below when one is given.
- Do not invent addresses, prices or opening hours.
`)

	if lang == restaurant.LangTC {
		b.WriteString("- Reply in Traditional Chinese (Cantonese usage).\n")
	} else {
		b.WriteString("- Reply in English.\n")
	}

	if len(nearbyItems) > 0 {
		b.WriteString("\nRestaurants near the user, nearest first:\n")
		for i, item := range nearbyItems {
			r := item.Restaurant
			fmt.Fprintf(&b, "%d. %s (%s)", i+1, r.DisplayName(lang), item.Distance)
			if d := r.District(lang); d != "" {
				fmt.Fprintf(&b, ", %s", d)
			}
			if len(r.Keywords) > 0 {
				fmt.Fprintf(&b, " [%s]", strings.Join(r.Keywords, ", "))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nQUESTION:\n")
	b.WriteString(strings.TrimSpace(question))
	return b.String()
}
