package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_LeadWithAllFourFields(t *testing.T) {
	reply := RawReply{Object: map[string]any{
		"nome":     "Ana",
		"email":    "a@x.com",
		"telefone": "5511999999999",
		"servico":  "site",
	}}

	cls := Classify(reply)
	require.Equal(t, ClassLead, cls.Kind)
	assert.Equal(t, "Ana", cls.Lead.Nome)
	assert.Equal(t, "a@x.com", cls.Lead.Email)
	assert.Equal(t, "5511999999999", cls.Lead.Telefone)
	assert.Equal(t, "site", cls.Lead.Servico)
}

func TestClassify_ExtraKeysAreIgnored(t *testing.T) {
	reply := RawReply{Object: map[string]any{
		"nome":       "Ana",
		"email":      "a@x.com",
		"telefone":   "5511999999999",
		"servico":    "site",
		"observacao": "quer começar este mês",
	}}

	cls := Classify(reply)
	assert.Equal(t, ClassLead, cls.Kind)
}

func TestClassify_MissingKeyDisqualifies(t *testing.T) {
	// Three of four is not a lead.
	reply := RawReply{Object: map[string]any{
		"nome":     "Ana",
		"email":    "a@x.com",
		"telefone": "5511999999999",
	}}

	cls := Classify(reply)
	assert.Equal(t, ClassUnrecognized, cls.Kind)
	assert.Nil(t, cls.Lead)
}

func TestClassify_NullValueDisqualifies(t *testing.T) {
	reply := RawReply{Object: map[string]any{
		"nome":     "Ana",
		"email":    nil,
		"telefone": "5511999999999",
		"servico":  "site",
	}}

	cls := Classify(reply)
	assert.Equal(t, ClassUnrecognized, cls.Kind)
}

func TestClassify_NonStringValuesAreStringified(t *testing.T) {
	reply := RawReply{Object: map[string]any{
		"nome":     "Ana",
		"email":    "a@x.com",
		"telefone": float64(5511999999999),
		"servico":  "site",
	}}

	cls := Classify(reply)
	require.Equal(t, ClassLead, cls.Kind)
	assert.NotEmpty(t, cls.Lead.Telefone)
}

func TestClassify_PlainText(t *testing.T) {
	cls := Classify(RawReply{Text: "Olá! Como posso ajudar?"})
	assert.Equal(t, ClassText, cls.Kind)
	assert.Equal(t, "Olá! Como posso ajudar?", cls.Text)
}

func TestClassify_EmptyReplyIsUnrecognized(t *testing.T) {
	cls := Classify(RawReply{})
	assert.Equal(t, ClassUnrecognized, cls.Kind)
}
