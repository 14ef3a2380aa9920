package whois

import (
	"time"

	"github.com/user/phish-dataset/internal/entity"
)

const dateLayout = "2006-01-02"

// daysExisted is the number of days between creation and expiry, nil when either
// date is not a plain YYYY-MM-DD value.
func daysExisted(create, expiry string) *int {
	if create == "" || create == entity.WhoisNotAvailable {
		return nil
	}
	c, err := time.Parse(dateLayout, create)
	if err != nil {
		return nil
	}
	e, err := time.Parse(dateLayout, expiry)
	if err != nil {
		return nil
	}
	days := int(e.Sub(c).Hours() / 24)
	return &days
}

func orNotAvailable(s string) string {
	if s == "" {
		return entity.WhoisNotAvailable
	}
	return s
}
