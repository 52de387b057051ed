package filter

/*

go test -v ./internal/filter -count=1

*/

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
)

func f(v float64) *float64 { return &v }

func sample() []models.Company {
	return []models.Company{
		{ID: "1", CNPJ: "11.222.333/0001-81", RazaoSocial: "Acme Software Ltda", Setor: "Tecnologia", Subsetor: "SaaS",
			ARRFy24: 1_000_000, MargemEBITDA: 25, CrescimentoReceita: 30, Score: 8, MultiploValuation: 4,
			RiscoOperacional: models.RiskLow, StatusAprovacao: models.ApprovalApproved},
		{ID: "2", CNPJ: "45.372.391/0001-03", RazaoSocial: "Beta Logística", Setor: "Logística", Subsetor: "Transporte",
			ARRFy24: 999_999, MargemEBITDA: 10, CrescimentoReceita: 5, Score: 5, MultiploValuation: 8,
			RiscoOperacional: models.RiskHigh, StatusAprovacao: models.ApprovalUnderEvaluation},
		{ID: "3", CNPJ: "07.384.926/0001-77", RazaoSocial: "Gama Saúde", Setor: "Saúde", Subsetor: "Clínicas"},
	}
}

func ids(cs []models.Company) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func TestApply_NoCriteria(t *testing.T) {
	in := sample()
	got := Apply(in, Criteria{})
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("want unchanged, got %v", ids(got))
	}
}

func TestApply_MinARRInclusive(t *testing.T) {
	got := Apply(sample(), Criteria{MinARR: f(1_000_000)})
	if !reflect.DeepEqual(ids(got), []string{"1"}) {
		t.Fatalf("got %v", ids(got))
	}
}

func TestApply_SearchTerm(t *testing.T) {
	cases := []struct {
		term string
		want []string
	}{
		{"acme", []string{"1"}},
		{"LOGÍSTICA", []string{"2"}},
		{"saas", []string{"1"}},
		{"45.372", []string{"2"}},
		{"/0001-", []string{"1", "2", "3"}},
		{"inexistente", []string{}},
	}
	for _, tc := range cases {
		got := ids(Apply(sample(), Criteria{SearchTerm: tc.term}))
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("term=%q want=%v got=%v", tc.term, tc.want, got)
		}
	}
}

func TestApply_Categorical(t *testing.T) {
	got := Apply(sample(), Criteria{Setor: "Tecnologia", RiscoOperacional: string(models.RiskLow)})
	if !reflect.DeepEqual(ids(got), []string{"1"}) {
		t.Fatalf("got %v", ids(got))
	}
	got = Apply(sample(), Criteria{StatusAprovacao: string(models.ApprovalUnderEvaluation)})
	if !reflect.DeepEqual(ids(got), []string{"2"}) {
		t.Fatalf("got %v", ids(got))
	}
	// igualdade exata, sem substring
	if got := Apply(sample(), Criteria{Setor: "Tecno"}); len(got) != 0 {
		t.Fatalf("got %v", ids(got))
	}
}

func TestApply_MaxMultiplo(t *testing.T) {
	// empresa 3 sem múltiplo (0) passa trivialmente
	got := Apply(sample(), Criteria{MaxMultiplo: f(4)})
	if !reflect.DeepEqual(ids(got), []string{"1", "3"}) {
		t.Fatalf("got %v", ids(got))
	}
}

func TestApply_Combined(t *testing.T) {
	c := Criteria{MinMargemEBITDA: f(10), MinCrescimento: f(5), MinScore: f(5)}
	got := Apply(sample(), c)
	if !reflect.DeepEqual(ids(got), []string{"1", "2"}) {
		t.Fatalf("got %v", ids(got))
	}
	c.MinScore = f(6)
	got = Apply(sample(), c)
	if !reflect.DeepEqual(ids(got), []string{"1"}) {
		t.Fatalf("got %v", ids(got))
	}
}

func TestFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("q", " acme ")
	q.Set("minArr", "1000000")
	q.Set("maxMultiplo", "abc")
	c := FromQuery(q)
	if c.SearchTerm != "acme" || c.MinARR == nil || *c.MinARR != 1_000_000 {
		t.Fatalf("got %#v", c)
	}
	if c.MaxMultiplo != nil {
		t.Fatalf("invalid number must be ignored")
	}
}
