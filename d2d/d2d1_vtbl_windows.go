package d2d

import "github.com/kirides/surfaceshare/win"

type iD2D1ResourceVtbl struct {
	win.IUnknownVtbl

	GetFactory uintptr
}

type iD2D1FactoryVtbl struct {
	win.IUnknownVtbl

	ReloadSystemMetrics            uintptr
	GetDesktopDpi                  uintptr
	CreateRectangleGeometry        uintptr
	CreateRoundedRectangleGeometry uintptr
	CreateEllipseGeometry          uintptr
	CreateGeometryGroup            uintptr
	CreateTransformedGeometry      uintptr
	CreatePathGeometry             uintptr
	CreateStrokeStyle              uintptr
	CreateDrawingStateBlock        uintptr
	CreateWicBitmapRenderTarget    uintptr
	CreateHwndRenderTarget         uintptr
	CreateDxgiSurfaceRenderTarget  uintptr
	CreateDCRenderTarget           uintptr
}

type iD2D1Factory1Vtbl struct {
	iD2D1FactoryVtbl

	CreateDevice             uintptr
	CreateStrokeStyle1       uintptr
	CreatePathGeometry1      uintptr
	CreateDrawingStateBlock1 uintptr
	CreateGdiMetafile        uintptr
	RegisterEffectFromStream uintptr
	RegisterEffectFromString uintptr
	UnregisterEffect         uintptr
	GetRegisteredEffects     uintptr
	GetEffectProperties      uintptr
}

type iD2D1DeviceVtbl struct {
	iD2D1ResourceVtbl

	CreateDeviceContext     uintptr
	CreatePrintControl      uintptr
	SetMaximumTextureMemory uintptr
	GetMaximumTextureMemory uintptr
	ClearResources          uintptr
}

type iD2D1RenderTargetVtbl struct {
	iD2D1ResourceVtbl

	CreateBitmap                 uintptr
	CreateBitmapFromWicBitmap    uintptr
	CreateSharedBitmap           uintptr
	CreateBitmapBrush            uintptr
	CreateSolidColorBrush        uintptr
	CreateGradientStopCollection uintptr
	CreateLinearGradientBrush    uintptr
	CreateRadialGradientBrush    uintptr
	CreateCompatibleRenderTarget uintptr
	CreateLayer                  uintptr
	CreateMesh                   uintptr
	DrawLine                     uintptr
	DrawRectangle                uintptr
	FillRectangle                uintptr
	DrawRoundedRectangle         uintptr
	FillRoundedRectangle         uintptr
	DrawEllipse                  uintptr
	FillEllipse                  uintptr
	DrawGeometry                 uintptr
	FillGeometry                 uintptr
	FillMesh                     uintptr
	FillOpacityMask              uintptr
	DrawBitmap                   uintptr
	DrawText                     uintptr
	DrawTextLayout               uintptr
	DrawGlyphRun                 uintptr
	SetTransform                 uintptr
	GetTransform                 uintptr
	SetAntialiasMode             uintptr
	GetAntialiasMode             uintptr
	SetTextAntialiasMode         uintptr
	GetTextAntialiasMode         uintptr
	SetTextRenderingParams       uintptr
	GetTextRenderingParams       uintptr
	SetTags                      uintptr
	GetTags                      uintptr
	PushLayer                    uintptr
	PopLayer                     uintptr
	Flush                        uintptr
	SaveDrawingState             uintptr
	RestoreDrawingState          uintptr
	PushAxisAlignedClip          uintptr
	PopAxisAlignedClip           uintptr
	Clear                        uintptr
	BeginDraw                    uintptr
	EndDraw                      uintptr
	GetPixelFormat               uintptr
	SetDpi                       uintptr
	GetDpi                       uintptr
	GetSize                      uintptr
	GetPixelSize                 uintptr
	GetMaximumBitmapSize         uintptr
	IsSupported                  uintptr
}

type iD2D1DeviceContextVtbl struct {
	iD2D1RenderTargetVtbl

	CreateBitmap1                         uintptr
	CreateBitmapFromWicBitmap1            uintptr
	CreateColorContext                    uintptr
	CreateColorContextFromFilename        uintptr
	CreateColorContextFromWicColorContext uintptr
	CreateBitmapFromDxgiSurface           uintptr
	CreateEffect                          uintptr
	CreateGradientStopCollection1         uintptr
	CreateImageBrush                      uintptr
	CreateBitmapBrush1                    uintptr
	CreateCommandList                     uintptr
	IsDxgiFormatSupported                 uintptr
	IsBufferPrecisionSupported            uintptr
	GetImageLocalBounds                   uintptr
	GetImageWorldBounds                   uintptr
	GetGlyphRunWorldBounds                uintptr
	GetDevice                             uintptr
	SetTarget                             uintptr
	GetTarget                             uintptr
}

type iD2D1BrushVtbl struct {
	iD2D1ResourceVtbl

	SetOpacity   uintptr
	SetTransform uintptr
	GetOpacity   uintptr
	GetTransform uintptr
}

type iD2D1SolidColorBrushVtbl struct {
	iD2D1BrushVtbl

	SetColor uintptr
	GetColor uintptr
}
