package export

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kilianp07/blendplan/core/model"
)

var latexTmpl = template.Must(template.New("report").Delims("<<", ">>").Funcs(template.FuncMap{
	"cols":  func(k int) string { return strings.Repeat("c|", k) },
	"row":   joinRow,
	"fixed": func(v float64) string { return decimal.NewFromFloat(v).StringFixed(3) },
	"inc":   func(i int) int { return i + 1 },
	"seq":   seq,
	"band": func(title, label string, l int, rows [][]float64) bandData {
		return bandData{Title: title, Label: label, L: l, Rows: rows}
	},
}).Parse(`\documentclass{article}
\usepackage[utf8]{inputenc}
\usepackage{geometry}
\geometry{a4paper, margin=1in}
\usepackage{booktabs}
\usepackage{amsmath}

\title{Production optimization report}
\author{}
\date{<<.Date>>}

\begin{document}
\maketitle

\section{Parameters}
\begin{itemize}
    \item Components (n): <<.In.N>>
    \item Products (m): <<.In.M>>
    \item Quality characteristics (l): <<.In.L>>
\end{itemize}

\section{Input data}
<<- template "band" (band "Lower quality bounds" "Product" .In.L .In.LowerBounds)>>
<<- template "band" (band "Upper quality bounds" "Product" .In.L .In.UpperBounds)>>
<<- template "band" (band "Component quality" "Component" .In.L .In.ComponentQuality)>>

\subsection{Product constraints}
\begin{tabular}{|c|c|c|c|c|}
\hline
Product & Planned supply & Park volume & Stock & Price \\
\hline
<<range $i, $r := .In.ProductConstraints>>Product <<inc $i>> & <<row $r>> \\
<<end>>\hline
\end{tabular}

\subsection{Component constraints}
\begin{tabular}{|c|c|c|c|c|}
\hline
Component & Supply & Park volume & Stock & Unit cost \\
\hline
<<range $i, $r := .In.ComponentConstraints>>Component <<inc $i>> & <<row $r>> \\
<<end>>\hline
\end{tabular}
<<with .Plan>>
\section{Optimization results}

\subsection{Component use per product ($X_{js}$)}
\begin{tabular}{|c|<<cols (len .ProductOutput)>>}
\hline
Component \textbackslash{} Product<<range $s := seq (len .ProductOutput)>> & Product <<inc $s>><<end>> \\
\hline
<<range $j, $r := .Allocation>>Component <<inc $j>><<range $r>> & <<fixed .>><<end>> \\
<<end>>\hline
\end{tabular}

\subsection{Product output ($Y_s$)}
\begin{tabular}{|<<cols (len .ProductOutput)>>}
\hline
<<range $s, $v := .ProductOutput>><<if $s>> & <<end>>Product <<inc $s>><<end>> \\
\hline
<<range $s, $v := .ProductOutput>><<if $s>> & <<end>><<fixed $v>><<end>> \\
\hline
\end{tabular}

\subsection{Maximum profit}
\textbf{<<$.Profit>>}
<<end>>
\end{document}
<<define "band">>
\subsection{<<.Title>>}
\begin{tabular}{|c|<<cols .L>>}
\hline
<<.Label>><<range $i := seq .L>> & Characteristic <<inc $i>><<end>> \\
\hline
<<range $i, $r := .Rows>><<$.Label>> <<inc $i>> & <<row $r>> \\
<<end>>\hline
\end{tabular}
<<end>>`))

type bandData struct {
	Title string
	Label string
	L     int
	Rows  [][]float64
}

type latexData struct {
	Date   string
	In     model.ProblemInput
	Plan   *model.Plan
	Profit string
}

// WriteLatex writes the report for in and, when plan is not nil, its
// optimal allocation. The profit is rounded half away from zero to cents.
func WriteLatex(w io.Writer, in model.ProblemInput, plan *model.Plan) error {
	data := latexData{Date: time.Now().Format("2006-01-02"), In: in, Plan: plan}
	if plan != nil {
		if !plan.CreatedAt.IsZero() {
			data.Date = plan.CreatedAt.Format("2006-01-02")
		}
		data.Profit = decimal.NewFromFloat(plan.Profit).StringFixed(2)
	}
	if err := latexTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("latex report: %w", err)
	}
	return nil
}

func joinRow(r []float64) string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = decimal.NewFromFloat(v).String()
	}
	return strings.Join(parts, " & ")
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
