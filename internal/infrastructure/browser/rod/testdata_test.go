package rod

// HTML fixtures served through httptest in the driver tests.
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	ClickFallbackHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="checkout">Proceed to checkout</button>
	<div id="result"></div>
	<script>
		document.getElementById('checkout').addEventListener('click', function() {
			document.getElementById('result').textContent = 'clicked';
		});
	</script>
</body>
</html>`

	ChallengeHTML = `<!DOCTYPE html>
<html>
<body>
	<h1>Verify you are human</h1>
	<input type="checkbox" id="challenge-box" />
	<label for="challenge-box">I'm not a robot</label>
</body>
</html>`

	TypeFallbackHTML = `<!DOCTYPE html>
<html>
<body>
	<input id="box" placeholder="Search anything" />
	<div id="marker"></div>
	<script>
		document.getElementById('box').addEventListener('keydown', function(e) {
			if (e.key === 'Enter') {
				document.getElementById('marker').textContent = 'submitted:' + this.value;
			}
		});
	</script>
</body>
</html>`

	TypeLastResortHTML = `<!DOCTYPE html>
<html>
<body>
	<p>No obvious fields here.</p>
	<textarea id="free-text"></textarea>
</body>
</html>`

	ScrollableHTML = `<!DOCTYPE html>
<html>
<body style="height: 5000px;">
	<h1 id="top">Top of Page</h1>
	<div style="margin-top: 2000px;" id="middle">Middle</div>
</body>
</html>`

	FeedHTML = `<!DOCTYPE html>
<html>
<body>
	<a href="/r/golang/comments/1"><h3>Go 1.24 released</h3></a>
	<a href="/r/golang/comments/2"><h3>Generics in practice</h3></a>
	<h3>Unlinked announcement</h3>
</body>
</html>`
)
