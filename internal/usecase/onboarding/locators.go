package onboarding

import "onboarding-bot/internal/domain/entity"

// Field binds a semantic field name to the ordered locator strategies that
// address it on the target UI. The first strategy is authoritative; the rest
// are fallbacks for controls whose addressing is known to drift.
type Field struct {
	Name      string
	Locators  []entity.Locator
	Mandatory bool
}

func field(name, id string) Field {
	return Field{Name: name, Locators: []entity.Locator{entity.ID(id)}}
}

func mandatory(f Field) Field {
	f.Mandatory = true
	return f
}

const (
	simulationPrefix   = "ctl00_Cph_ucSimulacaoCartaoConsignado_"
	registrationPrefix = "ctl00_Cph_Container_AbaCliente_ucCadastroCliente_"
	addressPrefix      = registrationPrefix + "ucEnderecoResidencial_"
	phonePrefix        = registrationPrefix + "ucTelefoneCelular_"
	attachmentPrefix   = "ctl00_Cph_ucAnexarDocumento1_"
)

// login page
var (
	loginUsername = mandatory(field("username", "txtUsuario_CAMPO"))
	loginPassword = mandatory(field("password", "txtSenha_CAMPO"))
	loginSubmit   = field("login", "bbConfirmar")
)

// simulation screen
var (
	simOutlet             = field("outlet", simulationPrefix+"cbLoja_CAMPO")
	simProductType        = field("product_type", simulationPrefix+"cbTipoProduto_CAMPO")
	simTaxID              = mandatory(field("tax_id", simulationPrefix+"txtCPF_CAMPO"))
	simEnrollment         = mandatory(field("enrollment", simulationPrefix+"txtNumeroBeneficio_CAMPO"))
	simEmployer           = field("employer", simulationPrefix+"cbEmpregador_CAMPO")
	simCalculateMargin    = field("calculate_margin", simulationPrefix+"bbCalcularMargem")
	simMargin             = mandatory(field("margin", simulationPrefix+"txtValorMargem_CAMPO"))
	simMarginOK           = field("margin_ok", simulationPrefix+"lnkMargemOK")
	simShowTables         = field("show_tables", simulationPrefix+"bbSimularConsignado")
	simTableDetail        = field("table_detail", simulationPrefix+"gridTabelas_ctl02_lnkDetalhes")
	simSimulateWithdrawal = field("simulate_withdrawal", simulationPrefix+"bbSimularSaque")
	simRequestProposal    = field("request_proposal", simulationPrefix+"bbSolicitarProposta")
	simConfirmYes         = field("confirm_yes", simulationPrefix+"bbContinuarSim")

	simStartPipeline = Field{
		Name: "start_pipeline",
		Locators: []entity.Locator{
			entity.ID(simulationPrefix + "bbIniciarEsteira"),
			entity.CSS("a#" + simulationPrefix + "bbIniciarEsteira.btn.btn-success"),
			entity.PartialID("bbIniciarEsteira"),
		},
	}
)

// registration form
var (
	regRG          = field("rg", registrationPrefix+"txtRG_CAMPO")
	regRGIssueDate = field("rg_issue_date", registrationPrefix+"txtDtEmissao_CAMPO")
	regIssuingBody = field("issuing_body", registrationPrefix+"txtLocalEmissao_CAMPO")
	regIssuingUF   = field("issuing_uf", registrationPrefix+"cbUFEmissao_CAMPO")

	regBirthplace    = field("birthplace", registrationPrefix+"txtCidadeNatal_CAMPO")
	regBirthUF       = field("birth_uf", registrationPrefix+"cbUFNatal_CAMPO")
	regSex           = field("sex", registrationPrefix+"cbSexo_CAMPO")
	regMaritalStatus = field("marital_status", registrationPrefix+"cbEstadoCivil_CAMPO")
	regMotherName    = field("mother_name", registrationPrefix+"txtNomeMae_CAMPO")

	regPostalCode   = mandatory(field("postal_code", addressPrefix+"txtCEP_CAMPO"))
	regStreet       = field("street", addressPrefix+"txtEndereco_CAMPO")
	regNumber       = field("number", addressPrefix+"txtEnderecoNR_CAMPO")
	regNeighborhood = field("neighborhood", addressPrefix+"txtBairro_CAMPO")
	regRegion       = field("region", addressPrefix+"cbUF_CAMPO")
	regComplement   = field("complement", addressPrefix+"txtComplemento_CAMPO")
	regCity         = field("city", addressPrefix+"txtCidade_CAMPO")

	regAdmissionDate         = field("admission_date", registrationPrefix+"txtDataAdmissao_CAMPO")
	regProfession            = field("profession", registrationPrefix+"cbProfissao_CAMPO")
	regProfessionDescription = field("profession_description", registrationPrefix+"txtProfissao_CAMPO")
	regRole                  = field("role", registrationPrefix+"txtCargo_CAMPO")
	regIncome                = field("income", registrationPrefix+"txtRenda_CAMPO")

	regAccountType = field("account_type", registrationPrefix+"cbTipoConta_CAMPO")
	regBank        = field("bank", registrationPrefix+"cbBanco_CAMPO")
	regAgency      = field("agency", registrationPrefix+"txtAgencia_CAMPO")
	regAccount     = mandatory(field("account", registrationPrefix+"txtConta_CAMPO"))
	regCheckDigit  = mandatory(field("check_digit", registrationPrefix+"txtContaDV_CAMPO"))

	regAreaCode = field("area_code", phonePrefix+"txtDDD_CAMPO")
	regPhone    = field("phone", phonePrefix+"txtFone_CAMPO")
	regEmail    = field("email", registrationPrefix+"txtEmail_CAMPO")

	regSave = field("save", "ctl00_Cph_Container_AbaCliente_bbGravar")
)

// document attachment panel
var (
	docType    = field("document_type", attachmentPrefix+"cbTipoDocumento_CAMPO")
	docFile    = field("document_file", attachmentPrefix+"fileUpload")
	docSend    = field("document_send", attachmentPrefix+"bbEnviar")
	docApprove = field("approve", "ctl00_Cph_ucBotoesEsteira1_bbAprovar")
)

// requiredBeforeSave is the subset whose empty value blocks submission.
var requiredBeforeSave = []Field{regPostalCode, regAccount, regCheckDigit}

// documentTypes maps each document to its option value in the type dropdown,
// in upload order.
var documentTypes = []struct {
	Kind  entity.DocumentKind
	Value string
}{
	{entity.DocumentIDBack, "20"},
	{entity.DocumentProofOfAddress, "4"},
	{entity.DocumentProofOfIncome, "5"},
}
