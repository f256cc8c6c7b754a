package dash

// dashboardHTML is the whole front-end: selector, map, chart, and table in a
// single self-contained page. State arrives over the /api/live websocket
// (with /api/state as the initial fetch fallback); the only write back is
// the selector's POST to /api/select.
const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>citydash</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
*,*::before,*::after{box-sizing:border-box;margin:0;padding:0}
:root{
  --bg:#0f1117;--bg-card:#161b22;--border:#30363d;
  --text:#e1e4e8;--text-muted:#8b949e;--primary:#58a6ff;--radius:8px;
}
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Helvetica,Arial,sans-serif;background:var(--bg);color:var(--text);line-height:1.5;min-height:100vh}
.container{max-width:1200px;margin:0 auto;padding:0 24px 48px}
header{background:var(--bg-card);border-bottom:1px solid var(--border);padding:12px 24px;margin-bottom:24px}
.header-title{font-size:20px;font-weight:700}
.card{background:var(--bg-card);border:1px solid var(--border);border-radius:var(--radius);padding:16px;margin-bottom:24px}
.card h2{font-size:15px;margin-bottom:12px;color:var(--text-muted)}
select{background:var(--bg);color:var(--text);border:1px solid var(--border);border-radius:4px;padding:6px 10px;font-size:14px;min-width:220px}
#map{height:440px;border-radius:4px}
#chart img{width:100%;background:#fff;border-radius:4px}
table{width:100%;border-collapse:collapse;font-size:14px}
th,td{text-align:left;padding:8px 12px;border-bottom:1px solid var(--border)}
th{color:var(--text-muted);font-weight:600}
td.num{text-align:right;font-variant-numeric:tabular-nums}
.notice{color:var(--text-muted);padding:24px;text-align:center}
.hidden{display:none}
</style>
</head>
<body>
<header><div class="header-title">citydash &mdash; top cities by population</div></header>
<div class="container">
  <div class="card">
    <h2>Country</h2>
    <select id="country" disabled><option>loading&hellip;</option></select>
  </div>
  <div id="notice" class="notice">Waiting for country list&hellip;</div>
  <div id="panels" class="hidden">
    <div class="card"><h2>Map</h2><div id="map"></div></div>
    <div class="card"><h2>Population</h2><div id="chart"><img id="chart-img" alt="population bar chart"></div></div>
    <div class="card"><h2>Rows</h2>
      <table>
        <thead><tr><th>Name</th><th>Country</th><th>Population</th><th>Latitude</th><th>Longitude</th></tr></thead>
        <tbody id="rows"></tbody>
      </table>
    </div>
  </div>
</div>
<script>
(function(){
  "use strict";
  var map = null, markers = null;

  function ensureMap(){
    if (map) return;
    map = L.map("map").setView([20, 0], 2);
    L.tileLayer("https://tile.openstreetmap.org/{z}/{x}/{y}.png", {
      attribution: "&copy; OpenStreetMap contributors"
    }).addTo(map);
    markers = L.layerGroup().addTo(map);
  }

  function setOptions(countries, selected){
    var sel = document.getElementById("country");
    sel.innerHTML = "";
    countries.forEach(function(c){
      var opt = document.createElement("option");
      opt.value = c; opt.textContent = c; opt.selected = (c === selected);
      sel.appendChild(opt);
    });
    sel.disabled = countries.length === 0;
  }

  function showNotice(text){
    document.getElementById("notice").textContent = text;
    document.getElementById("notice").classList.remove("hidden");
    document.getElementById("panels").classList.add("hidden");
  }

  function render(st){
    setOptions(st.countries || [], st.selected);
    if (st.phase === "waiting"){ showNotice("Waiting for country list…"); return; }
    if (st.phase === "empty"){ showNotice("Loading " + st.selected + "… (or no data)"); return; }

    document.getElementById("notice").classList.add("hidden");
    document.getElementById("panels").classList.remove("hidden");

    ensureMap();
    markers.clearLayers();
    var latSum = 0, lonSum = 0;
    st.cities.forEach(function(c){
      latSum += c.latitude; lonSum += c.longitude;
      L.circleMarker([c.latitude, c.longitude], {radius: 8, color: "#f85149"})
        .bindTooltip(c.name)
        .bindPopup("<b>" + c.name + "</b><br>population " + c.population.toLocaleString())
        .addTo(markers);
    });
    map.setView([latSum / st.cities.length, lonSum / st.cities.length], 4);
    setTimeout(function(){ map.invalidateSize(); }, 0);

    document.getElementById("chart-img").src = "/api/chart.svg?t=" + Date.now();

    var rows = document.getElementById("rows");
    rows.innerHTML = "";
    st.cities.forEach(function(c){
      var tr = document.createElement("tr");
      tr.innerHTML = "<td>" + c.name + "</td><td>" + c.country + "</td>" +
        "<td class='num'>" + c.population.toLocaleString() + "</td>" +
        "<td class='num'>" + c.latitude.toFixed(2) + "</td>" +
        "<td class='num'>" + c.longitude.toFixed(2) + "</td>";
      rows.appendChild(tr);
    });
  }

  document.getElementById("country").addEventListener("change", function(ev){
    fetch("/api/select", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({country: ev.target.value})
    });
  });

  function connect(){
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/api/live");
    ws.onmessage = function(ev){ render(JSON.parse(ev.data)); };
    ws.onclose = function(){ setTimeout(connect, 2000); };
  }

  fetch("/api/state").then(function(r){ return r.json(); }).then(render);
  connect();
})();
</script>
</body>
</html>
`
