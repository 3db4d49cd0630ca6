package bridge

import (
	"strconv"
	"strings"

	"github.com/dop251/goja"
)

// ScriptOptions parameterizes in-document script generation.
type ScriptOptions struct {
	// FrameToken is stamped into every message the script emits.
	FrameToken string
	// HostOrigin is the postMessage target origin. Empty means "*", which
	// is required when the host origin is not determinable from inside an
	// opaque-origin frame.
	HostOrigin string
}

// Script generates the in-document bridge script for one load. The output
// is deterministic for a given set of options and has no external
// dependencies: it installs a global error handler, an unhandled-rejection
// handler, a ResizeObserver on the body (plus one eager report after
// DOMContentLoaded) and a capturing click interceptor for anchors that
// target a non-self context.
func Script(opts ScriptOptions) string {
	target := opts.HostOrigin
	if target == "" {
		target = "*"
	}

	var sb strings.Builder
	sb.WriteString("(function(){\n")
	sb.WriteString("var TOKEN=" + strconv.Quote(opts.FrameToken) + ";\n")
	sb.WriteString("var TARGET=" + strconv.Quote(target) + ";\n")
	sb.WriteString(`function send(type,payload){
  try{parent.postMessage({frame_token:TOKEN,type:type,payload:payload},TARGET);}catch(e){}
}
window.addEventListener("error",function(e){
  send("byof:error",{
    message:e.message||String(e),
    stack:e.error&&e.error.stack?String(e.error.stack):"",
    filename:e.filename||"",
    line:e.lineno||0,
    column:e.colno||0
  });
});
window.addEventListener("unhandledrejection",function(e){
  var r=e.reason;
  send("byof:error",{
    message:r&&r.message?String(r.message):String(r),
    stack:r&&r.stack?String(r.stack):""
  });
});
function reportHeight(){
  if(document.body){send("byof:resize",{height:document.body.scrollHeight});}
}
if(typeof ResizeObserver!=="undefined"){
  var ro=new ResizeObserver(function(){reportHeight();});
  if(document.body){ro.observe(document.body);}
  else{document.addEventListener("DOMContentLoaded",function(){if(document.body){ro.observe(document.body);}});}
}
document.addEventListener("DOMContentLoaded",reportHeight);
document.addEventListener("click",function(e){
  var el=e.target;
  while(el&&el.tagName!=="A"){el=el.parentElement;}
  if(!el||!el.href){return;}
  var t=el.getAttribute("target");
  if(t&&t!=="_self"){
    e.preventDefault();
    send("byof:navigate",{url:el.href});
  }
},true);
})();`)
	return sb.String()
}

// ScriptTag wraps the generated script in a <script> element for head
// injection alongside the CSP meta tag.
func ScriptTag(opts ScriptOptions) string {
	return "<script>" + Script(opts) + "</script>"
}

// VerifyScript compiles the generated script and reports syntax errors.
// Run once at startup so a bad template never reaches a frame.
func VerifyScript(opts ScriptOptions) error {
	_, err := goja.Compile("bridge.js", Script(opts), true)
	return err
}
