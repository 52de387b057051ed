package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
	"github.com/Werneck0live/pipeline-empresas/internal/utils"
)

// NewValidator registra as tags do domínio (cnpj e os enums) e usa o nome
// JSON dos campos nas mensagens.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("cnpj", func(fl validator.FieldLevel) bool {
		return utils.ValidateCNPJ(fl.Field().String())
	})
	_ = v.RegisterValidation("risco", func(fl validator.FieldLevel) bool {
		switch models.RiskLevel(fl.Field().String()) {
		case models.RiskLow, models.RiskMedium, models.RiskHigh:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("aprovacao", func(fl validator.FieldLevel) bool {
		switch models.ApprovalStatus(fl.Field().String()) {
		case models.ApprovalApproved, models.ApprovalUnderEvaluation, models.ApprovalRejected:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("categoria_ineficiencia", oneOf(models.InefficiencyCategories))
	_ = v.RegisterValidation("severidade", oneOf(models.Severities))
	_ = v.RegisterValidation("status_entrada", oneOf(models.EntryStatuses))
	_ = v.RegisterValidation("origem", oneOf([]models.EntrySource{models.SourceManual, models.SourceAI}))
	_ = v.RegisterValidation("entradas_unicas", uniqueEntryIDs)
	return v
}

// oneOf cobre os enums com espaço no valor ("Em Análise"), que a tag oneof não aceita.
func oneOf[T ~string](allowed []T) validator.Func {
	return func(fl validator.FieldLevel) bool {
		got := T(fl.Field().String())
		for _, a := range allowed {
			if got == a {
				return true
			}
		}
		return false
	}
}

// uniqueEntryIDs: IDs vazios são entradas novas e não contam como repetição.
func uniqueEntryIDs(fl validator.FieldLevel) bool {
	entries, ok := fl.Field().Interface().([]EntryDTO)
	if !ok {
		return false
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		if seen[e.ID] {
			return false
		}
		seen[e.ID] = true
	}
	return true
}

// validationMessage transforma validator.ValidationErrors numa mensagem única
// e estável (campos em ordem alfabética).
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	problems := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "cnpj":
			msg = "invalid cnpj"
		case "risco":
			msg = "must be one of Baixo, Médio, Alto"
		case "aprovacao":
			msg = "must be one of Aprovada, Em Avaliação, Não Aprovada"
		case "categoria_ineficiencia", "severidade", "status_entrada", "origem":
			msg = "has an unknown value " + fmt.Sprintf("%q", fe.Value())
		case "min":
			msg = "must have at least " + fe.Param() + " item(s)"
		case "gt":
			msg = "must be greater than " + fe.Param()
		case "gte":
			msg = "must be >= " + fe.Param()
		case "lte":
			msg = "must be <= " + fe.Param()
		default:
			msg = "invalid value"
		}
		problems = append(problems, fmt.Sprintf("%s %s", field, msg))
	}
	sort.Strings(problems)
	return strings.Join(problems, "; ")
}
