package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
	"github.com/Werneck0live/pipeline-empresas/internal/ranking"
)

func pipeline() []models.Company {
	return []models.Company{
		{ID: "low", RazaoSocial: "Baixa", Setor: "Software", Score: 4, MargemEBITDA: 10, RiscoOperacional: models.RiskHigh},
		{ID: "high", RazaoSocial: "Alta", Setor: "Software", Score: 9, MargemEBITDA: 30, CrescimentoReceita: 25, MultiploValuation: 3, RiscoOperacional: models.RiskLow},
		{ID: "other", RazaoSocial: "Fora", Setor: "Saúde", Score: 10},
	}
}

func TestRanking_RankFilteredDefaultWeights(t *testing.T) {
	sm := &storeMock{ListFn: func(context.Context) ([]models.Company, error) { return pipeline(), nil }}
	h := NewRankingHandler(sm, nil)

	rr := httptest.NewRecorder()
	h.Rank(rr, httptest.NewRequest(http.MethodPost, "/api/ranking", strings.NewReader(`{"filtros":{"setor":"Software"}}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var res RankingResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("json: %v", err)
	}
	if res.Pesos != ranking.DefaultWeights() || res.Total != 2 {
		t.Fatalf("unexpected header: %+v", res)
	}
	if res.Empresas[0].ID != "high" || res.Empresas[0].WeightedScore <= res.Empresas[1].WeightedScore {
		t.Fatalf("unexpected order: %+v", res.Empresas)
	}
}

func TestRanking_PartialWeights(t *testing.T) {
	sm := &storeMock{ListFn: func(context.Context) ([]models.Company, error) { return pipeline(), nil }}
	h := NewRankingHandler(sm, nil)

	rr := httptest.NewRecorder()
	h.Rank(rr, httptest.NewRequest(http.MethodPost, "/api/ranking", strings.NewReader(`{"pesos":{"score":100,"ebitdaMargin":0,"revenueGrowth":0,"valuationMultiple":0,"operationalRisk":0}}`)))
	var res RankingResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &res)
	if len(res.Empresas) != 3 || res.Empresas[0].ID != "other" || res.Empresas[0].WeightedScore != 10 {
		t.Fatalf("score-only ranking: %+v", res.Empresas)
	}
}

func TestRanking_Weights(t *testing.T) {
	h := NewRankingHandler(&storeMock{}, nil)

	rr := httptest.NewRecorder()
	h.Weights(rr, httptest.NewRequest(http.MethodPost, "/api/ranking/weights", strings.NewReader(`{"chave":"score","valor":40}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var got ranking.Weights
	_ = json.Unmarshal(rr.Body.Bytes(), &got)
	want := ranking.Weights{Score: 40, EBITDAMargin: 17, RevenueGrowth: 17, ValuationMultiple: 13, OperationalRisk: 13}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}

	for _, body := range []string{`{"chave":"lucro","valor":10}`, `{"chave":"score","valor":140}`, `{"chave":"score"}`} {
		rr := httptest.NewRecorder()
		h.Weights(rr, httptest.NewRequest(http.MethodPost, "/api/ranking/weights", strings.NewReader(body)))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d", body, rr.Code)
		}
	}
}

func TestRanking_RejectsOutOfRangeWeights(t *testing.T) {
	sm := &storeMock{ListFn: func(context.Context) ([]models.Company, error) { return pipeline(), nil }}
	h := NewRankingHandler(sm, nil)

	for _, body := range []string{`{"pesos":{"score":1e308}}`, `{"pesos":{"operationalRisk":-5}}`, `{"pesos":{"ebitdaMargin":101}}`} {
		rr := httptest.NewRecorder()
		h.Rank(rr, httptest.NewRequest(http.MethodPost, "/api/ranking", strings.NewReader(body)))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d body=%s", body, rr.Code, rr.Body.String())
		}
	}

	rr := httptest.NewRecorder()
	h.Weights(rr, httptest.NewRequest(http.MethodPost, "/api/ranking/weights", strings.NewReader(`{"pesos":{"score":500},"chave":"score","valor":40}`)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("weights with base out of range: status=%d", rr.Code)
	}
}
