package recommend

import (
	"fmt"
	"strings"
)

// ComposeEmail renders the recommendation message. Pure and deterministic:
// records appear in the order given (the sampled order), each as
// "<n>. <name>, located at <first address line>". The exact wording is what
// users have been receiving; change with care.
func ComposeEmail(cuisine string, partySize int, date, timeOfDay string, records []Restaurant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello! Here are my %s restaurant suggestions for %d people, for %s at %s: \n",
		cuisine, partySize, date, timeOfDay)
	for i, r := range records {
		addr := ""
		if len(r.Address) > 0 {
			addr = r.Address[0]
		}
		fmt.Fprintf(&b, "%d. %s, located at %s\n", i+1, r.Name, addr)
	}
	b.WriteString("Enjoy your meal.")
	return b.String()
}
