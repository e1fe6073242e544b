package rod

const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	FormHTML = `<!DOCTYPE html>
<html>
<body>
	<form onsubmit="return false">
		<input id="txtUsuario_CAMPO" type="text" value="prefilled" />
		<input id="txtSenha_CAMPO" type="password" />
		<select id="cbLoja_CAMPO">
			<option value="">-</option>
			<option value="10">Loja Centro</option>
			<option value="11">Loja Norte</option>
		</select>
		<input id="fileUpload" type="file" />
		<a id="ctl00_Cph_ucSimulacao_bbIniciarEsteira" class="btn btn-success" href="#">OK</a>
	</form>
	<div id="changes"></div>
	<script>
		document.getElementById('cbLoja_CAMPO').addEventListener('change', function(e) {
			document.getElementById('changes').textContent = 'changed:' + e.target.value;
		});
	</script>
</body>
</html>`

	InteractiveHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="btn">Click Me</button>
	<div id="result"></div>
	<script>
		document.getElementById('btn').addEventListener('click', function() {
			document.getElementById('result').textContent = 'Clicked!';
		});
	</script>
</body>
</html>`

	// CoveredHTML hides the button under a transparent overlay, the way
	// modal backdrops do on the target site.
	CoveredHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="btn" style="position:absolute;top:10px;left:10px;width:120px;height:40px">Covered</button>
	<div id="overlay" style="position:fixed;top:0;left:0;width:100%;height:100%;z-index:10"></div>
	<div id="result"></div>
	<script>
		document.getElementById('btn').addEventListener('click', function() {
			document.getElementById('result').textContent = 'Clicked!';
		});
	</script>
</body>
</html>`

	DelayedHTML = `<!DOCTYPE html>
<html>
<body>
	<div id="root"></div>
	<script>
		setTimeout(function() {
			var el = document.createElement('input');
			el.id = 'late_CAMPO';
			el.value = 'auto';
			document.getElementById('root').appendChild(el);
		}, 300);
	</script>
</body>
</html>`
)
