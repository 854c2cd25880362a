package report

// reportTemplate is the standalone HTML report layout.
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            margin: 0;
            padding: 20px;
            background-color: #f5f5f5;
            color: #333;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
            background-color: white;
            padding: 30px;
            border-radius: 10px;
            box-shadow: 0 4px 6px rgba(0,0,0,0.1);
        }
        .header {
            text-align: center;
            margin-bottom: 30px;
            padding-bottom: 20px;
            border-bottom: 2px solid #e0e0e0;
        }
        .header h1 { color: #2c3e50; margin-bottom: 10px; }
        .header .timestamp { color: #7f8c8d; }
        .stats {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 20px;
            margin-bottom: 30px;
        }
        .stat-box {
            background-color: #3498db;
            color: white;
            padding: 20px;
            border-radius: 8px;
            text-align: center;
        }
        .stat-box.failed { background-color: #e74c3c; }
        .stat-box.cancelled { background-color: #95a5a6; }
        .stat-number { font-size: 24px; font-weight: bold; }
        .variant {
            border: 1px solid #e0e0e0;
            border-radius: 8px;
            margin-bottom: 20px;
        }
        .variant-header {
            background-color: #ecf0f1;
            padding: 12px 16px;
            font-weight: bold;
        }
        .variant-header .status { float: right; font-weight: normal; }
        .variant-header .status.failed { color: #e74c3c; }
        .variant-header .status.cancelled { color: #7f8c8d; }
        .variant-content { padding: 16px; }
        .metric { display: flex; justify-content: space-between; max-width: 420px; }
        .metric-value { font-weight: bold; }
        .error { color: #e74c3c; }
        table { border-collapse: collapse; margin-top: 10px; }
        th, td { border: 1px solid #e0e0e0; padding: 6px 10px; text-align: right; }
        th:first-child, td:first-child { text-align: left; }
    </style>
</head>
<body>
<div class="container">
    <div class="header">
        <h1>AlphaGenome Analytics</h1>
        <div class="subtitle">Variant Analysis Report</div>
        <div class="timestamp">Generated on {{.Generated}}</div>
    </div>

    <div class="stats">
        <div class="stat-box">
            <div class="stat-number">{{.Summary.Total}}</div>
            <div class="stat-label">Total Variants</div>
        </div>
        <div class="stat-box">
            <div class="stat-number">{{.Summary.Succeeded}}</div>
            <div class="stat-label">Predicted</div>
        </div>
        <div class="stat-box failed">
            <div class="stat-number">{{.Summary.Failed}}</div>
            <div class="stat-label">Failed</div>
        </div>
        <div class="stat-box cancelled">
            <div class="stat-number">{{.Summary.Cancelled}}</div>
            <div class="stat-label">Cancelled</div>
        </div>
        <div class="stat-box">
            <div class="stat-number">{{pct .Summary.SuccessRate}}</div>
            <div class="stat-label">Success Rate (run took {{.Elapsed}})</div>
        </div>
    </div>

    {{range .Variants}}
    <div class="variant">
        <div class="variant-header">
            Variant #{{.Index}}: {{.ID}}
            <span class="status {{.Status}}">{{.Status}}</span>
        </div>
        <div class="variant-content">
            <div class="metric"><span>Gene:</span><span class="metric-value">{{.Gene}}</span></div>
            <div class="metric"><span>Location:</span><span class="metric-value">{{.Location}}</span></div>
            <div class="metric"><span>Change:</span><span class="metric-value">{{.Change}}</span></div>
            {{range .Metadata}}
            <div class="metric"><span>{{.Key}}:</span><span class="metric-value">{{.Value}}</span></div>
            {{end}}
            {{if .Error}}
            <p class="error">{{.Error}}</p>
            {{end}}
            {{if .Assays}}
            <table>
                <tr>
                    <th>Assay</th>
                    <th>Ref mean</th><th>Ref max</th>
                    <th>Alt mean</th><th>Alt max</th>
                    <th>Mean diff</th><th>Max diff</th><th>Total effect</th><th>Correlation</th>
                </tr>
                {{range .Assays}}
                <tr>
                    <td>{{.Name}}</td>
                    {{with .Reference}}<td>{{f4 .Mean}}</td><td>{{f4 .Max}}</td>{{else}}<td>-</td><td>-</td>{{end}}
                    {{with .Alternate}}<td>{{f4 .Mean}}</td><td>{{f4 .Max}}</td>{{else}}<td>-</td><td>-</td>{{end}}
                    {{with .Difference}}<td>{{f4 .MeanDifference}}</td><td>{{f4 .MaxDifference}}</td><td>{{f4 .TotalEffect}}</td><td>{{f4 .Correlation}}</td>{{else}}<td>-</td><td>-</td><td>-</td><td>-</td>{{end}}
                </tr>
                {{end}}
            </table>
            {{if .TopAssay}}
            <div class="metric"><span>Largest effect:</span><span class="metric-value">{{.MaxEffect}} ({{.TopAssay}})</span></div>
            {{end}}
            {{end}}
        </div>
    </div>
    {{end}}
</div>
</body>
</html>
`
