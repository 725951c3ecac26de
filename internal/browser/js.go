package browser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quizpilot/quizpilot/internal/dom"
	"github.com/quizpilot/quizpilot/internal/mcq"
)

// jsSnapshot serializes the document to HTML with open shadow roots
// inlined as <template shadowrootmode> children of their host, and with
// live form state (checked, selected) reflected into attributes so the
// parsed snapshot matches what the user sees.
const jsSnapshot = `(() => {
  const VOID = new Set(["area","base","br","col","embed","hr","img","input","link","meta","param","source","track","wbr"]);
  const esc = s => s.replace(/&/g, "&amp;").replace(/</g, "&lt;").replace(/>/g, "&gt;");
  const escAttr = s => esc(s).replace(/"/g, "&quot;");
  const ser = node => {
    if (node.nodeType === Node.TEXT_NODE) return esc(node.data);
    if (node.nodeType !== Node.ELEMENT_NODE) return "";
    const tag = node.tagName.toLowerCase();
    const liveChecked = tag === "input" && (node.type === "radio" || node.type === "checkbox");
    const liveSelected = tag === "option";
    let out = "<" + tag;
    for (const a of node.attributes) {
      if (liveChecked && a.name === "checked") continue;
      if (liveSelected && a.name === "selected") continue;
      out += " " + a.name + '="' + escAttr(a.value) + '"';
    }
    if (liveChecked && node.checked) out += ' checked=""';
    if (liveSelected && node.selected) out += ' selected=""';
    out += ">";
    if (VOID.has(tag)) return out;
    if (node.shadowRoot) {
      out += '<template shadowrootmode="' + node.shadowRoot.mode + '">';
      for (const c of node.shadowRoot.childNodes) out += ser(c);
      out += "</template>";
    }
    for (const c of node.childNodes) out += ser(c);
    return out + "</" + tag + ">";
  };
  return "<!DOCTYPE html>" + ser(document.documentElement);
})()`

// jsMutationCount installs a MutationObserver on first use and returns the
// running mutation counter.
const jsMutationCount = `(() => {
  if (window.__qpMutations === undefined) {
    window.__qpMutations = 0;
    new MutationObserver(() => { window.__qpMutations++; })
      .observe(document.documentElement, { childList: true, subtree: true, attributes: true });
  }
  return window.__qpMutations;
})()`

// resolveExpr builds an expression that walks a handle's selector
// segments, crossing shadow boundaries between segments, then runs action
// on the element. Evaluates to false when the element is gone.
func resolveExpr(path mcq.Handle, action string) string {
	segs, _ := json.Marshal(strings.Split(string(path), dom.ShadowSeparator))
	return fmt.Sprintf(`(() => {
  const segs = %s;
  let el = document.querySelector(segs[0]);
  for (let i = 1; i < segs.length && el; i++) {
    el = el.shadowRoot ? el.shadowRoot.querySelector(segs[i]) : null;
  }
  if (!el) return false;
  %s
  return true;
})()`, segs, action)
}

// fetchImageExpr loads src inside the page, inheriting its session, and
// resolves to a data URI.
func fetchImageExpr(src string) string {
	quoted, _ := json.Marshal(src)
	return fmt.Sprintf(`fetch(%s)
  .then(r => { if (!r.ok) throw new Error("status " + r.status); return r.blob(); })
  .then(b => new Promise((resolve, reject) => {
    const fr = new FileReader();
    fr.onload = () => resolve(fr.result);
    fr.onerror = () => reject(fr.error);
    fr.readAsDataURL(b);
  }))`, quoted)
}
