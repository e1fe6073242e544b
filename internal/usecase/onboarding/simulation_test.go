package onboarding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding-bot/internal/domain/entity"
)

func simulationIDs(suffixes ...string) []string {
	ids := make([]string, len(suffixes))
	for i, s := range suffixes {
		ids[i] = simulationPrefix + s
	}
	return ids
}

func TestSimulationStage_RunsAllSteps(t *testing.T) {
	b := newFakeBrowser()
	b.options[simOutlet.Locators[0].Value] = []string{"", "10"}
	sleeps := &sleepRecorder{}
	st := NewSimulationStage(testEntryURL, SimulationDefaults{}, testTiming(sleeps))

	res := st.Run(context.Background(), stageRunFor(b, completeContext()))

	require.True(t, res.OK, res.Reason)

	ids := simulationIDs("bbCalcularMargem", "lnkMargemOK", "bbSimularConsignado",
		"gridTabelas_ctl02_lnkDetalhes", "bbSimularSaque", "bbSolicitarProposta",
		"bbContinuarSim", "bbIniciarEsteira")
	want := []string{
		"navigate " + testEntryURL,
		"select " + simulationPrefix + "cbLoja_CAMPO#1",
		"select " + simulationPrefix + "cbTipoProduto_CAMPO=1",
		"type " + simulationPrefix + "txtCPF_CAMPO=12345678900",
		"type " + simulationPrefix + "txtNumeroBeneficio_CAMPO=987654",
		"select " + simulationPrefix + "cbEmpregador_CAMPO=51",
		"click " + ids[0] + " native",
		"type " + simulationPrefix + "txtValorMargem_CAMPO=500.00",
	}
	for _, id := range ids[1:] {
		want = append(want, "click "+id+" native")
	}
	want = append(want, "screenshot "+simulationScreenshot)

	assert.Equal(t, want, b.history())
	assert.Equal(t, []string{"artifacts/" + simulationScreenshot}, res.Screenshots)
	assert.Equal(t, "10", b.value(simOutlet.Locators[0].Value))
}

func TestSimulationStage_DefaultsProductAndEmployer(t *testing.T) {
	b := newFakeBrowser()
	wctx := completeContext()
	wctx.ProductType = ""
	wctx.Employer = ""
	st := NewSimulationStage(testEntryURL, SimulationDefaults{ProductType: "4"}, testTiming(&sleepRecorder{}))

	res := st.Run(context.Background(), stageRunFor(b, wctx))

	require.True(t, res.OK, res.Reason)
	assert.Equal(t, "4", b.value(simProductType.Locators[0].Value))
	assert.Equal(t, defaultEmployer, b.value(simEmployer.Locators[0].Value))
}

func TestSimulationStage_SimulateOnlyStopsBeforeHandOff(t *testing.T) {
	b := newFakeBrowser()
	st := NewSimulationStage(testEntryURL, SimulationDefaults{}, testTiming(&sleepRecorder{}))
	run := stageRunFor(b, completeContext())
	run.Plan = entity.RunPlan{SimulateOnly: true}

	res := st.Run(context.Background(), run)

	require.True(t, res.OK, res.Reason)
	assert.Zero(t, b.count("click "+simulationPrefix+"bbIniciarEsteira"))
	assert.Equal(t, 1, b.count("click "+simulationPrefix+"bbContinuarSim"))
}

func TestSimulationStage_StepFailureAborts(t *testing.T) {
	b := newFakeBrowser()
	b.missing[simMarginOK.Locators[0].Value] = true
	st := NewSimulationStage(testEntryURL, SimulationDefaults{}, testTiming(&sleepRecorder{}))

	res := st.Run(context.Background(), stageRunFor(b, completeContext()))

	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrStageFailed)
	assert.Contains(t, res.Reason, "margin_ok")
	assert.Zero(t, b.count("click "+simulationPrefix+"bbSimularConsignado"))
	assert.Zero(t, b.count("screenshot erro_botao_ok.png"), "only the final control gets a failure screenshot")
	assert.Equal(t, 1, b.count("screenshot "+simulationScreenshot))
}

func TestSimulationStage_MissingTaxIDAborts(t *testing.T) {
	b := newFakeBrowser()
	wctx := completeContext()
	wctx.TaxID = ""
	st := NewSimulationStage(testEntryURL, SimulationDefaults{}, testTiming(&sleepRecorder{}))

	res := st.Run(context.Background(), stageRunFor(b, wctx))

	assert.False(t, res.OK)
	require.Len(t, res.Report.FailedMandatory, 1)
	assert.Equal(t, "tax_id", res.Report.FailedMandatory[0].Field)
}

func TestSimulationStage_StartControlFallback(t *testing.T) {
	b := newFakeBrowser()
	b.missing[simStartPipeline.Locators[0].Value] = true
	b.missing[simStartPipeline.Locators[1].Value] = true
	st := NewSimulationStage(testEntryURL, SimulationDefaults{}, testTiming(&sleepRecorder{}))

	res := st.Run(context.Background(), stageRunFor(b, completeContext()))

	require.True(t, res.OK, res.Reason)
	assert.Equal(t, 1, b.count("click bbIniciarEsteira native"))
}

func TestSimulationStage_StartControlUnreachable(t *testing.T) {
	b := newFakeBrowser()
	for _, loc := range simStartPipeline.Locators {
		b.failClicks(loc.Value)
	}
	st := NewSimulationStage(testEntryURL, SimulationDefaults{}, testTiming(&sleepRecorder{}))

	res := st.Run(context.Background(), stageRunFor(b, completeContext()))

	assert.False(t, res.OK)
	assert.Equal(t, 3, b.count("click "+simulationPrefix+"bbIniciarEsteira "))
	assert.Equal(t, []string{
		"artifacts/erro_botao_ok.png",
		"artifacts/" + simulationScreenshot,
	}, res.Screenshots)
}

func TestSimulationStage_WrongPage(t *testing.T) {
	b := newFakeBrowser()
	b.onNavigate = func(string) string { return testLoginURL }
	st := NewSimulationStage(testEntryURL, SimulationDefaults{}, testTiming(&sleepRecorder{}))

	res := st.Run(context.Background(), stageRunFor(b, completeContext()))

	assert.False(t, res.OK)
	assert.Contains(t, res.Reason, "simulation page not reached")
	assert.Zero(t, b.count("select "))
}
