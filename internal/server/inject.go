// Package server provides the preview HTTP server with live reload support
// for anvil.
package server

import (
	"bytes"
	"fmt"
)

// liveReloadScript is the JavaScript injected into HTML pages to enable
// automatic browser reloading when day values change. The verbs are the CSP
// nonce and the WebSocket path on the serving host.
const liveReloadScript = `<script nonce="%s">
(function() {
  var url = (location.protocol === "https:" ? "wss://" : "ws://") + location.host + "%s";
  var ws;
  function connect() {
    ws = new WebSocket(url);
    ws.onmessage = function(e) {
      if (e.data === "reload") {
        location.reload();
      }
    };
    ws.onclose = function() {
      setTimeout(connect, 1000);
    };
  }
  connect();
})();
</script>`

// InjectLiveReload inserts the live reload WebSocket script, tagged with
// nonce, into the HTML document. If a </body> tag is found, the script is
// inserted immediately before it. Otherwise the script is appended to the end
// of the document.
func InjectLiveReload(html []byte, wsPath, nonce string) []byte {
	script := fmt.Appendf(nil, liveReloadScript, nonce, wsPath)

	idx := bytes.LastIndex(html, []byte("</body>"))
	if idx == -1 {
		return append(html, script...)
	}

	result := make([]byte, 0, len(html)+len(script))
	result = append(result, html[:idx]...)
	result = append(result, script...)
	result = append(result, html[idx:]...)
	return result
}
