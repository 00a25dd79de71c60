package charts

const (
	HeatmapTitle = "Weekday x hour heatmap"
	PeriodTitle  = "Time-of-day distribution"
	AmountTitle  = "Amount distribution"
)

// EChartsOptions maps each series to an ECharts option object, keyed by
// "heatmap", "period" and "amount".
func EChartsOptions(ds Dataset) map[string]any {
	data := make([][3]float64, 0, len(ds.Heatmap.Cells))
	for _, c := range ds.Heatmap.Cells {
		data = append(data, [3]float64{float64(c.Hour), float64(c.Weekday), c.Value})
	}
	return map[string]any{
		"heatmap": map[string]any{
			"title":   title(HeatmapTitle),
			"tooltip": map[string]any{"position": "top"},
			"grid":    map[string]any{"left": 60, "right": 16, "bottom": 40, "top": 30, "containLabel": true},
			"xAxis":   categoryAxis(ds.Heatmap.Hours, true),
			"yAxis":   categoryAxis(ds.Heatmap.Weekdays, true),
			"visualMap": map[string]any{
				"min":        0,
				"max":        ds.Heatmap.ScaleMax,
				"calculable": true,
				"orient":     "horizontal",
				"left":       "center",
				"bottom":     0,
			},
			"series": []any{map[string]any{
				"name": "count",
				"type": "heatmap",
				"data": data,
				"emphasis": map[string]any{
					"itemStyle": map[string]any{"shadowBlur": 8, "shadowColor": "rgba(0, 0, 0, 0.3)"},
				},
			}},
		},
		"period": barOption(PeriodTitle, ds.Period, "#4C72B0", 40, 0),
		"amount": barOption(AmountTitle, ds.Amount, "#C44E52", 60, 30),
	}
}

func title(text string) map[string]any {
	return map[string]any{"text": text, "left": "center", "top": 0}
}

func categoryAxis(labels []string, splitArea bool) map[string]any {
	axis := map[string]any{"type": "category", "data": labels}
	if splitArea {
		axis["splitArea"] = map[string]any{"show": true}
	}
	return axis
}

func barOption(text string, s CategorySeries, color string, bottom, rotate int) map[string]any {
	x := categoryAxis(s.Labels, false)
	if rotate != 0 {
		x["axisLabel"] = map[string]any{"rotate": rotate}
	}
	return map[string]any{
		"title":   title(text),
		"tooltip": map[string]any{"trigger": "axis"},
		"grid":    map[string]any{"left": 40, "right": 20, "top": 40, "bottom": bottom, "containLabel": true},
		"xAxis":   x,
		"yAxis":   map[string]any{"type": "value"},
		"series": []any{map[string]any{
			"type":      "bar",
			"data":      s.Values,
			"itemStyle": map[string]any{"color": color},
		}},
	}
}
