package dashboard

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Annadata Field Monitor</title>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: system-ui, sans-serif; margin: 0; background: #f4f6f3; color: #1d2b1f; }
        .header { padding: 14px 24px; background: #2e7d32; color: #fff; font-size: 20px; font-weight: 600; }
        .grid { display: grid; grid-template-columns: 2fr 1fr; gap: 16px; padding: 16px 24px; }
        .panel { background: #fff; border-radius: 8px; padding: 16px; box-shadow: 0 1px 3px rgba(0,0,0,.1); }
        .badge { display: inline-block; padding: 6px 12px; border-radius: 6px; color: #fff; font-weight: 600; }
        .ok { background: #2e7d32; } .warn { background: #ef6c00; } .alert { background: #c62828; } .neutral { background: #607d8b; }
        .warning { color: #c62828; margin: 8px 0; min-height: 1em; }
        table { width: 100%; border-collapse: collapse; font-size: 13px; }
        th, td { border-bottom: 1px solid #e0e0e0; padding: 4px 6px; text-align: left; }
        label { display: block; margin-top: 8px; font-size: 13px; }
        input[type=range] { width: 100%; }
        img#stream { width: 100%; max-width: 900px; background: #263238; }
    </style>
</head>
<body>
<div class="header">🌾 Annadata Field Monitor</div>
<div class="grid">
    <div class="panel">
        <h3>Live Feed</h3>
        <div>
            <input id="camera-url" size="50" placeholder="http://192.168.1.5:8080/video">
            <button id="btn-start">Start monitoring</button>
            <button id="btn-stop">Stop</button>
        </div>
        <div class="warning" id="warning"></div>
        <img id="stream" src="/stream" alt="Live camera feed">
        <p>Last processed: <span id="last-processed">–</span></p>
    </div>
    <div>
        <div class="panel">
            <h3>Status</h3>
            <p>Leaf: <span class="badge neutral" id="leaf">N/A</span></p>
            <p>Weed: <span class="badge neutral" id="weed">N/A</span></p>
        </div>
        <div class="panel" style="margin-top:16px;">
            <h3>Soil Fertility</h3>
            <form id="soil-form">
                <label>N <span id="n-val"></span><input type="range" name="n" min="6" max="383" step="1" value="150"></label>
                <label>P <span id="p-val"></span><input type="range" name="p" min="3" max="125" step="1" value="50"></label>
                <label>K <span id="k-val"></span><input type="range" name="k" min="11" max="887" step="1" value="200"></label>
                <label>pH <span id="ph-val"></span><input type="range" name="ph" min="1" max="12" step="0.1" value="7.0"></label>
                <label>EC <span id="ec-val"></span><input type="range" name="ec" min="0.1" max="0.95" step="0.01" value="0.5"></label>
                <button type="submit" style="margin-top:10px;">Predict fertility</button>
            </form>
            <p><span class="badge neutral" id="fertility" style="display:none;"></span></p>
            <div class="warning" id="fertility-error"></div>
        </div>
    </div>
    <div class="panel" style="grid-column: span 2;">
        <h3>Recent results <a href="/api/history/download" style="font-size:13px;">download CSV</a></h3>
        <table>
            <thead><tr><th>Timestamp</th><th>Type</th><th>Result</th><th>Latitude</th><th>Longitude</th></tr></thead>
            <tbody id="history"></tbody>
        </table>
    </div>
</div>
<script>
function setBadge(id, badge) {
    const el = document.getElementById(id);
    el.textContent = badge.label;
    el.className = 'badge ' + badge.tone;
    el.style.display = '';
}

function render(s) {
    setBadge('leaf', s.leaf);
    setBadge('weed', s.weed);
    if (s.fertility) setBadge('fertility', s.fertility);
    document.getElementById('warning').textContent = s.warning || '';
    document.getElementById('last-processed').textContent = s.last_processed || '–';
    if (s.camera_url && !document.getElementById('camera-url').value) {
        document.getElementById('camera-url').value = s.camera_url;
    }
    const body = document.getElementById('history');
    body.innerHTML = '';
    (s.history || []).forEach(function (r) {
        const tr = document.createElement('tr');
        [r.Timestamp, r.Type, r.Result, r.Latitude, r.Longitude].forEach(function (v) {
            const td = document.createElement('td');
            td.textContent = v;
            tr.appendChild(td);
        });
        body.appendChild(tr);
    });
}

function connect() {
    const proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
    const ws = new WebSocket(proto + location.host + '/ws');
    ws.onmessage = function (ev) { render(JSON.parse(ev.data)); };
    ws.onclose = function () { setTimeout(connect, 2000); };
}

function post(url, body) {
    return fetch(url, {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: JSON.stringify(body || {})
    }).then(function (r) { return r.json(); });
}

document.getElementById('btn-start').onclick = function () {
    post('/api/monitor/start', {url: document.getElementById('camera-url').value}).then(render);
};
document.getElementById('btn-stop').onclick = function () {
    post('/api/monitor/stop').then(render);
};

const form = document.getElementById('soil-form');
form.querySelectorAll('input[type=range]').forEach(function (input) {
    const out = document.getElementById(input.name + '-val');
    const show = function () { out.textContent = input.value; };
    input.oninput = show;
    show();
});
form.onsubmit = function (ev) {
    ev.preventDefault();
    const body = {};
    form.querySelectorAll('input[type=range]').forEach(function (input) {
        body[input.name] = parseFloat(input.value);
    });
    post('/api/fertility', body).then(function (res) {
        document.getElementById('fertility-error').textContent = res.error || '';
        if (res.fertility) setBadge('fertility', {label: res.fertility, tone: res.tone});
    });
};

fetch('/api/status').then(function (r) { return r.json(); }).then(render);
connect();
</script>
</body>
</html>
`
