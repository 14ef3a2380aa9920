package entity

// WhoisNotAvailable fills registry fields the WHOIS source did not report.
const WhoisNotAvailable = "N/A"

// WhoisRecord is the flat registration data kept for a domain.
type WhoisRecord struct {
	QueryTime        string `json:"query_time,omitempty"`
	DomainRegistered string `json:"domain_registered,omitempty"`
	DomainName       string `json:"domain_name,omitempty"`
	CreateDate       string `json:"create_date,omitempty"`
	UpdateDate       string `json:"update_date,omitempty"`
	ExpiryDate       string `json:"expiry_date,omitempty"`
	DaysExisted      *int   `json:"days_existed,omitempty"`
	RegName          string `json:"regname,omitempty"`
	WhoisServer      string `json:"whoisserver,omitempty"`
	WebsiteURL       string `json:"website_url,omitempty"`
	NameServer0      string `json:"name_server_0,omitempty"`
	NameServer1      string `json:"name_server_1,omitempty"`
}

// WhoisColumns lists the flattened WHOIS columns of a dataset row.
var WhoisColumns = []string{
	"whois_query_time", "whois_domain_registered", "whois_domain_name",
	"whois_create_date", "whois_update_date", "whois_expiry_date", "whois_days_existed",
	"whois_regname", "whois_whoisserver", "whois_website_url",
	"whois_name_server_0", "whois_name_server_1",
}

// Fields returns the record values in WhoisColumns order.
func (w WhoisRecord) Fields() []any {
	return []any{
		w.QueryTime, w.DomainRegistered, w.DomainName,
		w.CreateDate, w.UpdateDate, w.ExpiryDate, w.DaysExisted,
		w.RegName, w.WhoisServer, w.WebsiteURL,
		w.NameServer0, w.NameServer1,
	}
}
