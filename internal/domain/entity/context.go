package entity

// WorkflowContext carries every input value one run needs. It is built once by
// the caller and passed by value through every stage.
type WorkflowContext struct {
	Username string `json:"usuario"`
	Password string `json:"senha"`

	TaxID       string `json:"cpf"`
	Enrollment  string `json:"matricula"`
	Employer    string `json:"empregador"`
	Margin      string `json:"valor_margem"`
	ProductType string `json:"tipo_produto"`

	RG          string `json:"rg"`
	RGIssueDate string `json:"data_emissao_rg"`
	IssuingBody string `json:"orgao_emissor"`
	IssuingUF   string `json:"uf_emissao"`

	Birthplace    string `json:"naturalidade"`
	BirthUF       string `json:"uf_naturalidade"`
	Sex           string `json:"sexo"`
	MaritalStatus string `json:"estado_civil"`
	MotherName    string `json:"nome_mae"`

	PostalCode string `json:"cep"`
	Street     string `json:"numero_log"`
	Number     string `json:"numero"`
	Complement string `json:"complemento"`

	AdmissionDate         string `json:"data_admissao"`
	Profession            string `json:"profissao"`
	ProfessionDescription string `json:"descricao_profissao"`
	Role                  string `json:"cargo"`
	Income                string `json:"renda"`

	AccountType string `json:"tipo_conta"`
	Bank        string `json:"banco"`
	Agency      string `json:"agencia"`
	Account     string `json:"conta"`
	CheckDigit  string `json:"digito"`

	AreaCode string `json:"ddd"`
	Phone    string `json:"telefone"`
	Email    string `json:"email"`

	Documents DocumentSet `json:"-"`
}

type DocumentKind string

const (
	DocumentIDBack         DocumentKind = "rg_verso"
	DocumentProofOfAddress DocumentKind = "comprovante_endereco"
	DocumentProofOfIncome  DocumentKind = "comprovante_renda"
)

// DocumentSet holds file-system paths, already resolved to local files.
type DocumentSet struct {
	IDBack         string
	ProofOfAddress string
	ProofOfIncome  string
}

func (d DocumentSet) Path(kind DocumentKind) string {
	switch kind {
	case DocumentIDBack:
		return d.IDBack
	case DocumentProofOfAddress:
		return d.ProofOfAddress
	case DocumentProofOfIncome:
		return d.ProofOfIncome
	}
	return ""
}

func (d DocumentSet) With(kind DocumentKind, path string) DocumentSet {
	switch kind {
	case DocumentIDBack:
		d.IDBack = path
	case DocumentProofOfAddress:
		d.ProofOfAddress = path
	case DocumentProofOfIncome:
		d.ProofOfIncome = path
	}
	return d
}

// Masked returns a copy safe to log.
func (c WorkflowContext) Masked() WorkflowContext {
	if c.Password != "" {
		c.Password = "***"
	}
	return c
}
