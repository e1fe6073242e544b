package submission

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding-bot/internal/application/port/input"
	"onboarding-bot/internal/domain/entity"
)

func TestDecodePayload(t *testing.T) {
	body := `{
		"usuario": "operador",
		"senha": "segredo",
		"cpf": "12345678900",
		"matricula": "987654",
		"valor_margem": "500.00",
		"cep": "69301-000",
		"arquivo_rg_verso": "do://clientes/rg.jpg",
		"arquivo_comprovante_renda": "https://files.example/renda.pdf"
	}`

	p, err := DecodePayload(strings.NewReader(body))
	require.NoError(t, err)

	req := p.Request(entity.RunPlan{SimulateOnly: true})
	assert.Equal(t, "12345678900", req.Context.TaxID)
	assert.Equal(t, "69301-000", req.Context.PostalCode)
	assert.True(t, req.Plan.SimulateOnly)
	assert.Equal(t, input.DocumentRefs{
		entity.DocumentIDBack:        "do://clientes/rg.jpg",
		entity.DocumentProofOfIncome: "https://files.example/renda.pdf",
	}, req.Documents)
}

func TestDecodePayload_Malformed(t *testing.T) {
	_, err := DecodePayload(strings.NewReader(`{"cpf": 123`))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
