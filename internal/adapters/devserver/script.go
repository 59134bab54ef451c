package devserver

// clientScript connects to the event endpoint. CSS events swap matching
// stylesheets by re-requesting them; every other event reloads the page.
const clientScript = `(() => {
  if (window.__SITEPRESS_LR__) return;
  window.__SITEPRESS_LR__ = true;
  function swapStyles(paths) {
    const links = document.querySelectorAll('link[rel="stylesheet"]');
    let swapped = 0;
    links.forEach((link) => {
      const url = new URL(link.href, location.href);
      if (url.origin !== location.origin) return;
      if (paths.length && !paths.some((p) => url.pathname === p)) return;
      url.searchParams.set('livereload', Date.now().toString());
      const next = link.cloneNode();
      next.href = url.toString();
      next.onload = () => link.remove();
      link.after(next);
      swapped++;
    });
    return swapped;
  }
  function connect() {
    const es = new EventSource('` + EventsPath + `');
    es.onmessage = (e) => {
      let msg;
      try { msg = JSON.parse(e.data); } catch (_) { return; }
      if (msg.type === 'css' && swapStyles(msg.paths || []) > 0) return;
      location.reload();
    };
    es.onerror = () => { es.close(); setTimeout(connect, 1000); };
  }
  connect();
})();
`
