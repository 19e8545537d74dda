package editor

import (
	"context"

	"badred/internal/redcall"
	"badred/internal/scheduler"
)

// traced wraps a handler so that, when a debug bridge is attached
// (state.Tracer), every completed RedCall round trip is mirrored to it.
// Mirroring happens after the handler returns; the tracer can only
// observe, never influence, a dispatch.
func (s *State) traced(handler redcall.Handler) redcall.Handler {
	return func(ctx context.Context, req redcall.Request) redcall.Response {
		resp := handler(ctx, req)
		if s.Tracer != nil {
			taskID, _ := scheduler.CurrentTaskId(ctx)
			s.Tracer.Broadcast(uint64(taskID), req, resp)
		}
		return resp
	}
}

// wire registers every RedCall variant against its handler: one table,
// built once at startup, never mutated again.
func (s *State) wire() {
	register := func(variant redcall.Variant, handler redcall.Handler) {
		s.Dispatcher.Register(variant, s.traced(handler))
	}

	register(redcall.CurrentBufferId, s.handleCurrentBufferId)
	register(redcall.BufferOpen, s.handleBufferOpen)
	register(redcall.BufferClose, s.handleBufferClose)
	register(redcall.BufferInsert, s.handleBufferInsert)
	register(redcall.BufferDelete, s.handleBufferDelete)
	register(redcall.BufferCursor, s.handleBufferCursor)
	register(redcall.BufferCursorLine, s.handleBufferCursorLine)
	register(redcall.BufferCursorMovedByChar, s.handleBufferCursorMovedByChar)
	register(redcall.BufferIndexMovedByChar, s.handleBufferIndexMovedByChar)
	register(redcall.BufferSetCursor, s.handleBufferSetCursor)
	register(redcall.BufferSetCursorLine, s.handleBufferSetCursorLine)
	register(redcall.BufferClear, s.handleBufferClear)
	register(redcall.BufferCursorContent, s.handleBufferCursorContent)
	register(redcall.BufferCursorLineContent, s.handleBufferCursorLineContent)
	register(redcall.BufferLength, s.handleBufferLength)
	register(redcall.BufferLineCount, s.handleBufferLineCount)
	register(redcall.BufferContent, s.handleBufferContent)
	register(redcall.BufferContentAt, s.handleBufferContentAt)
	register(redcall.BufferLineContent, s.handleBufferLineContent)
	register(redcall.BufferLineContaining, s.handleBufferLineContaining)
	register(redcall.BufferLineLength, s.handleBufferLineLength)
	register(redcall.BufferLineStart, s.handleBufferLineStart)
	register(redcall.BufferLineEnd, s.handleBufferLineEnd)
	register(redcall.BufferType, s.handleBufferType)
	register(redcall.BufferSetType, s.handleBufferSetType)
	register(redcall.BufferClearStyles, s.handleBufferClearStyles)
	register(redcall.BufferPushStyle, s.handleBufferPushStyle)

	register(redcall.FileOpen, s.handleFileOpen)
	register(redcall.FileClose, s.handleFileClose)
	register(redcall.BufferLinkFile, s.handleBufferLinkFile)
	register(redcall.BufferUnlinkFile, s.handleBufferUnlinkFile)
	register(redcall.BufferWriteToFile, s.handleBufferWriteToFile)
	register(redcall.BufferCurrentFile, s.handleBufferCurrentFile)

	register(redcall.ActivePaneIndex, s.handleActivePaneIndex)
	register(redcall.RootPaneIndex, s.handleRootPaneIndex)
	register(redcall.SetActivePane, s.handleSetActivePane)
	register(redcall.PaneIsFirst, s.handlePaneIsFirst)
	register(redcall.PaneIndexUpFrom, s.handlePaneIndexUpFrom)
	register(redcall.PaneIndexDownFrom, s.handlePaneIndexDownFrom)
	register(redcall.PaneType, s.handlePaneType)
	register(redcall.PaneBufferIndex, s.handlePaneBufferIndex)
	register(redcall.PaneSetBuffer, s.handlePaneSetBuffer)
	register(redcall.PaneVSplit, s.handlePaneVSplit)
	register(redcall.PaneHSplit, s.handlePaneHSplit)
	register(redcall.PaneCloseChild, s.handlePaneCloseChild)
	register(redcall.PaneSetSplitPercent, s.handlePaneSetSplitPercent)
	register(redcall.PaneSetSplitFixed, s.handlePaneSetSplitFixed)
	register(redcall.PaneTopLine, s.handlePaneTopLine)
	register(redcall.PaneSetTopLine, s.handlePaneSetTopLine)
	register(redcall.PaneFrame, s.handlePaneFrame)
	register(redcall.PaneWrap, s.handlePaneWrap)
	register(redcall.PaneSetWrap, s.handlePaneSetWrap)

	register(redcall.SetHook, s.handleSetHook)
	register(redcall.RunScript, s.handleRunScript)

	register(redcall.SetTextStyle, s.handleSetTextStyle)
	register(redcall.EditorExit, s.handleEditorExit)
	register(redcall.EditorOptions, s.handleEditorOptions)
	register(redcall.UpdateOptions, s.handleUpdateOptions)
}
