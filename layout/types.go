package layout

// 该文件定义布局结果类型，供布局计算、渲染与调试 JSON 共用。
// 除特别说明外，所有坐标与尺寸均以毫米为单位，字号以 pt 为单位。

// Result 保存布局后的全部页面。
type Result struct {
	Pages []Page `json:"pages"`
}

// Page 记录页面尺寸与可以直接渲染的元素。
type Page struct {
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	Texts    []TextBox    `json:"texts,omitempty"`
	Images   []ImageBox   `json:"images,omitempty"`
	Barcodes []BarcodeBox `json:"barcodes,omitempty"`
	Lines    []Line       `json:"lines,omitempty"`
	Rects    []Rect       `json:"rects,omitempty"`
	Ellipses []Ellipse    `json:"ellipses,omitempty"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// TextBox 表示一个已经排好行的文本块。X/Y 是盒子左上角的页面坐标；
// OffsetY 是垂直对齐产生的盒内下移量，行坐标均相对盒子顶部加该偏移。
type TextBox struct {
	Name             string     `json:"name,omitempty"`
	Content          string     `json:"content"`
	X                float64    `json:"x"`
	Y                float64    `json:"y"`
	Width            float64    `json:"width"`
	Height           float64    `json:"height"`
	Font             string     `json:"font"`
	FontSize         float64    `json:"fontSize"`
	LineHeight       float64    `json:"lineHeight"`
	CharacterSpacing float64    `json:"characterSpacing,omitempty"`
	Align            string     `json:"align"`
	VerticalAlign    string     `json:"verticalAlign"`
	Color            Color      `json:"color"`
	Lines            []TextLine `json:"lines"`
	ContentHeight    float64    `json:"contentHeight"`
	OffsetY          float64    `json:"offsetY"`
}

// TextLine 表示排版后的一行：X 为水平对齐产生的盒内偏移，
// Height 是该行占用的高度（首行按字体可视高度，后续行按字号）。
type TextLine struct {
	Content string  `json:"content"`
	X       float64 `json:"x"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// ImageBox 描述图片位置与尺寸，Src 可以是文件路径或 base64 数据。
type ImageBox struct {
	Name   string  `json:"name,omitempty"`
	Src    string  `json:"src"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fit    string  `json:"fit,omitempty"`
}

// BarcodeBox 描述条码占位：引擎只定位，不生成符号。
type BarcodeBox struct {
	Name   string  `json:"name,omitempty"`
	Value  string  `json:"value"`
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
}

// Rect 表示一个矩形（不包含圆角）。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"` // mm
}

// Ellipse 表示一个内接于其包围盒的椭圆。
type Ellipse struct {
	CX          float64 `json:"cx"`
	CY          float64 `json:"cy"`
	RX          float64 `json:"rx"`
	RY          float64 `json:"ry"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"` // mm
}
