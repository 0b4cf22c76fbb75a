package models

import "fmt"

// Domain identifies one desk page's record collection.
type Domain string

const (
	DomainEducation   Domain = "education"
	DomainITEducation Domain = "it-education"
	DomainInspection  Domain = "inspection"
	DomainInvestment  Domain = "investment"
	DomainSolution    Domain = "solution"
)

// DomainInfo carries the per-domain metadata the generic record manager is
// parameterized by: the business-code prefix and the Korean page label used
// in change-log sentences.
type DomainInfo struct {
	CodePrefix string
	Label      string
}

var domainRegistry = map[Domain]DomainInfo{
	DomainEducation:   {CodePrefix: "EDU-TRN", Label: "교육관리"},
	DomainITEducation: {CodePrefix: "EDU-IT", Label: "IT교육"},
	DomainInspection:  {CodePrefix: "SEC-INS", Label: "보안점검"},
	DomainInvestment:  {CodePrefix: "PLAN-INV", Label: "투자계획"},
	DomainSolution:    {CodePrefix: "SOL-WRK", Label: "솔루션관리"},
}

// String returns the string representation of a Domain.
func (d Domain) String() string {
	return string(d)
}

// IsValid returns true if the domain is registered.
func (d Domain) IsValid() bool {
	_, ok := domainRegistry[d]
	return ok
}

// Info returns the registry metadata for the domain.
// Returns an error for unknown domains.
func (d Domain) Info() (DomainInfo, error) {
	info, ok := domainRegistry[d]
	if !ok {
		return DomainInfo{}, fmt.Errorf("unknown domain: %q", d)
	}
	return info, nil
}

// AllDomains lists the registered domains in menu order.
var AllDomains = []Domain{
	DomainEducation,
	DomainITEducation,
	DomainInspection,
	DomainInvestment,
	DomainSolution,
}
